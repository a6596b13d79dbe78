// internal/pkg/token/codec.go
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"vantage-console/internal/domain/session"
	xerrors "vantage-console/internal/pkg/errors"
)

// DefaultTTL is the fixed token lifetime; the session cookie max-age matches.
const DefaultTTL = 8 * time.Hour

// Codec signs and verifies session tokens with a single symmetric secret.
// The secret is injected at construction and never mutated afterwards, so a
// Codec is safe for concurrent use. Both operations are pure cryptographic
// transforms with no side effects.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: secret, ttl: ttl}
}

// Issue serializes the session plus issued-at and expiry claims into a
// compact HS256-signed string.
func (c *Codec) Issue(s *session.Session) (string, error) {
	if len(c.secret) == 0 {
		return "", fmt.Errorf("token codec has empty secret")
	}

	now := time.Now()
	claims := &Claims{
		Email:       s.Email,
		DisplayName: s.DisplayName,
		Role:        s.Role,
		TenantID:    s.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        ulid.Make().String(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature integrity and expiry and returns the embedded
// session. Every failure mode collapses to ErrInvalidToken; callers treat it
// as "unauthenticated" and never surface the cause to the client.
func (c *Codec) Verify(tokenString string) (*session.Session, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidToken, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, xerrors.ErrInvalidToken
	}

	return claims.Session(), nil
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}
