package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProviderFailure is returned when the upstream provider request fails.
	// This is the only fatal condition in the pipeline; everything below it is
	// recovered locally and surfaced as diagnostics.
	ErrProviderFailure = errors.New("upstream provider request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrNoResults is returned when the shopping provider finds nothing
	ErrNoResults = errors.New("no shopping results found")
)
