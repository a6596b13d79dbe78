// internal/service/auth/auth.go
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	authdomain "vantage-console/internal/domain/auth"
	"vantage-console/internal/domain/directory"
	"vantage-console/internal/domain/session"
	xerrors "vantage-console/internal/pkg/errors"
	"vantage-console/internal/pkg/ratelimit"
	"vantage-console/internal/pkg/token"
	"vantage-console/internal/repository/ords"
	"vantage-console/internal/routing"
)

type AuthService struct {
	dir       directory.Directory
	codec     *token.Codec
	limiter   *ratelimit.LoginLimiter
	activator *ords.Client
	logger    *zap.Logger
}

// NewAuthService wires the credential verifier. activator may be nil when
// the deployment's directory driver has no activation endpoint; the
// set-password flow then reports the feature unavailable.
func NewAuthService(
	dir directory.Directory,
	codec *token.Codec,
	limiter *ratelimit.LoginLimiter,
	activator *ords.Client,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		dir:       dir,
		codec:     codec,
		limiter:   limiter,
		activator: activator,
		logger:    logger,
	}
}

// ========== Credential verification ==========

// Authenticate validates submitted credentials against the directory and
// builds the session for a successful login. Unknown email and wrong
// password return the same error; inactive and locked are distinguishable
// operational states the user can act on.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*session.Session, error) {
	rec, err := s.dir.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}
	if rec == nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	if !rec.IsActive {
		return nil, xerrors.ErrAccountInactive
	}
	if rec.IsLocked {
		return nil, xerrors.ErrAccountLocked
	}

	// Stored digests are unsalted SHA-256 hex; the activation flow writes
	// lowercase, so the compare is case-insensitive. Compatibility with the
	// deployed digest population pins this scheme.
	if !strings.EqualFold(sha256HexUpper(password), rec.PasswordHash) {
		return nil, xerrors.ErrInvalidCredentials
	}

	return sessionFromRecord(rec), nil
}

// Login runs the full login flow: rate limit, credential verification,
// token issuance, redirect resolution.
func (s *AuthService) Login(ctx context.Context, req *authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	allowed, remaining, err := s.limiter.Allow(ctx, req.IPAddress, req.Email)
	if err != nil {
		// Fail open: a broken limiter must not take down login.
		s.logger.Warn("login rate limiter unavailable", zap.Error(err))
	}
	if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
		)
		return nil, xerrors.ErrRateLimited
	}

	sess, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Info("login rejected",
			zap.String("email", req.Email),
			zap.Int64("attempts_remaining", remaining),
		)
		return nil, err
	}

	signed, err := s.codec.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.limiter.Reset(ctx, req.IPAddress, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	redirect := routing.HomeFor(sess.Role)
	if safeRelativePath(req.Next) {
		redirect = req.Next
	}

	return &authdomain.LoginResult{
		Token:    signed,
		Redirect: redirect,
		User: authdomain.UserSummary{
			Email:    sess.Email,
			Role:     sess.Role,
			TenantID: sess.TenantID,
		},
	}, nil
}

// VerifyToken decodes a session cookie value. Introspection callers map any
// error to "no session".
func (s *AuthService) VerifyToken(tokenString string) (*session.Session, error) {
	return s.codec.Verify(tokenString)
}

// Activate proxies the set-password activation to the directory and relays
// the upstream verdict.
func (s *AuthService) Activate(ctx context.Context, req *authdomain.ActivateRequest) (*ords.ActivateResult, error) {
	if s.activator == nil {
		return nil, fmt.Errorf("account activation is not available for this directory driver")
	}

	return s.activator.Activate(ctx, ords.ActivateRequest{
		TenantCode: req.Tenant,
		Token:      req.Token,
		Password:   req.Password,
		Username:   req.Username,
		Email:      req.Email,
	})
}

func sessionFromRecord(rec *directory.UserRecord) *session.Session {
	var name *string
	if rec.FullName != "" {
		n := rec.FullName
		name = &n
	}

	return &session.Session{
		SubjectID:   rec.ID,
		Email:       rec.Email,
		DisplayName: name,
		Role:        session.ParseRole(rec.Role),
		TenantID:    rec.TenantID,
	}
}

// safeRelativePath reports whether a client-supplied return path is a
// same-origin relative path. Protocol-relative forms ("//host", "/\host")
// resolve cross-origin in browsers and are open-redirect vectors.
func safeRelativePath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	return !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

func sha256HexUpper(s string) string {
	sum := sha256.Sum256([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
