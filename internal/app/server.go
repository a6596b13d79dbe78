// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vantage-console/internal/config"
	"vantage-console/internal/db"
	domaindir "vantage-console/internal/domain/directory"
	authHandler "vantage-console/internal/handlers/auth"
	"vantage-console/internal/middleware"
	"vantage-console/internal/pkg/ratelimit"
	"vantage-console/internal/pkg/token"
	"vantage-console/internal/repository/ords"
	"vantage-console/internal/repository/postgres"
	authUsecase "vantage-console/internal/service/auth"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer(cfg config.AppConfig) *Server {
	return &Server{cfg: cfg, engine: gin.New()}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- Token Codec -----
	// The secret was validated at config load; the codec owns it read-only
	// for the life of the process.
	codec := token.NewCodec([]byte(s.cfg.AuthSecret), token.DefaultTTL)

	// ----- Directory -----
	var (
		dir       domaindir.Directory
		activator *ords.Client
	)
	switch s.cfg.DirectoryDriver {
	case "postgres":
		pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		dir = postgres.NewDirectoryRepository(pool)
	default:
		client := ords.NewClient(s.cfg.OrdsBaseURL, s.cfg.OrdsBearer, logger)
		dir = client
		activator = client
	}

	// ----- Redis (optional, login rate limiting) -----
	var limiter *ratelimit.LoginLimiter
	if s.cfg.RedisAddr != "" {
		redisClient, err := db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		limiter = ratelimit.NewLoginLimiter(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, login rate limiting disabled")
	}

	// ----- Services -----
	authService := authUsecase.NewAuthService(dir, codec, limiter, activator, logger)

	// ----- Handlers & Middlewares -----
	authHandlerInst := authHandler.NewAuthHandler(authService, s.cfg.Production(), logger)
	gate := middleware.NewSessionGate(codec, dir, s.cfg.Production(), logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	SetupRouter(s.engine, gate, &Handlers{AuthHandler: authHandlerInst})

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
