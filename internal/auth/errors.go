package auth

import "errors"

var (
	// ErrMissingSecret is a configuration error: tokens cannot be signed or verified.
	ErrMissingSecret = errors.New("jwt secret is not configured")
	// ErrInvalidLifetime is returned for unparseable or non-positive token lifetimes.
	ErrInvalidLifetime = errors.New("invalid token lifetime")

	// ErrTokenExpired means the token was well-formed and signed but is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid means the token is malformed, tampered with or signed unexpectedly.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenWrongType means an access token was presented as a refresh token or vice versa.
	ErrTokenWrongType = errors.New("wrong token type")
	// ErrTokenVerification covers every other verification failure.
	ErrTokenVerification = errors.New("token verification failed")

	// ErrAccountNotFound is returned when a refresh targets an account that no longer exists.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUnauthorized is the coarse outcome presented to programmatic callers.
	ErrUnauthorized = errors.New("Unauthorized")
)
