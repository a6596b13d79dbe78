// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authdomain "vantage-console/internal/domain/auth"
	"vantage-console/internal/pkg/cookie"
	xerrors "vantage-console/internal/pkg/errors"
	"vantage-console/internal/pkg/response"
	"vantage-console/internal/service/auth"
)

type AuthHandler struct {
	authService  *auth.AuthService
	secureCookie bool
	logger       *zap.Logger
}

func NewAuthHandler(authService *auth.AuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Login verifies credentials, sets the session cookie and returns the
// post-login redirect target plus a minimal user summary.
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "missing email or password", xerrors.ErrInvalidInput)
		return
	}
	req.IPAddress = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.failLogin(c, req.Email, err)
		return
	}

	h.logger.Info("user logged in",
		zap.String("email", result.User.Email),
		zap.String("role", string(result.User.Role)),
	)

	cookie.SetSession(c.Writer, result.Token, h.secureCookie)
	response.Success(c, http.StatusOK, "login successful", result)
}

func (h *AuthHandler) failLogin(c *gin.Context, email string, err error) {
	switch {
	case errors.Is(err, xerrors.ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests, "too many login attempts, try again later", xerrors.ErrRateLimited)
	case errors.Is(err, xerrors.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid credentials", xerrors.ErrInvalidCredentials)
	case errors.Is(err, xerrors.ErrAccountInactive):
		response.Error(c, http.StatusForbidden, "account inactive", xerrors.ErrAccountInactive)
	case errors.Is(err, xerrors.ErrAccountLocked):
		response.Error(c, http.StatusForbidden, "account locked", xerrors.ErrAccountLocked)
	case errors.Is(err, xerrors.ErrUpstreamUnavailable):
		// No cached fallback exists for a fresh login; surface as retryable.
		h.logger.Error("login upstream unavailable", zap.String("email", email), zap.Error(err))
		response.Error(c, http.StatusBadGateway, "authentication service unavailable, try again", xerrors.ErrUpstreamUnavailable)
	default:
		h.logger.Error("login failed", zap.String("email", email), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
	}
}

// Logout clears the session cookie. Tokens are client-held only, so there
// is nothing server-side to revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearSession(c.Writer, h.secureCookie)
	response.Success(c, http.StatusOK, "logged out", nil)
}

// Me returns the decoded session for the current cookie. An absent or
// invalid token means "no session", never an error.
func (h *AuthHandler) Me(c *gin.Context) {
	raw := cookie.GetSession(c.Request)
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	sess, err := h.authService.VerifyToken(raw)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": sess})
}

// SetPassword proxies account activation to the directory and relays the
// upstream status.
func (h *AuthHandler) SetPassword(c *gin.Context) {
	var req authdomain.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "missing tenant, token, or password", xerrors.ErrInvalidInput)
		return
	}

	result, err := h.authService.Activate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrUpstreamUnavailable) {
			response.Error(c, http.StatusBadGateway, "activation service unavailable, try again", xerrors.ErrUpstreamUnavailable)
			return
		}
		h.logger.Error("activation failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "activation failed", nil)
		return
	}

	c.JSON(result.Status, result.Body)
}
