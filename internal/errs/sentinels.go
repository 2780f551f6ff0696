// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist (or is not owned by the caller).
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication: bad credentials or an unusable token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (username or tag name taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument indicates input rejected by service-level validation.
	ErrInvalidArgument = errors.New("validation")
)
