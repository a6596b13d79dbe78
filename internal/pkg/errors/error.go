package xerrors

import "errors"

// Common reusable application errors
var (
	// ErrInvalidToken covers bad signatures, malformed payloads and expiry.
	// It is never surfaced verbatim to the client; the gate converts it to a
	// redirect and the introspection endpoint to a null session.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidCredentials is deliberately the same for "no such account"
	// and "wrong password" to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAccountInactive = errors.New("account inactive")
	ErrAccountLocked   = errors.New("account locked")

	// ErrUpstreamUnavailable means the directory could not be reached. The
	// gate degrades to the token's cached role; the login path surfaces it
	// as a retryable error since a fresh login has no cached fallback.
	ErrUpstreamUnavailable = errors.New("directory unavailable")

	ErrRateLimited  = errors.New("too many requests")
	ErrInvalidInput = errors.New("invalid input")
)
