package repository

import "errors"

var (
	// ErrNoResult means the provider answered but had nothing usable.
	ErrNoResult = errors.New("provider returned no result")
	// ErrProviderRejected means the provider answered with an error payload.
	ErrProviderRejected = errors.New("provider rejected the request")
	// ErrNotConfigured means the capability has no credentials or endpoint.
	ErrNotConfigured = errors.New("provider not configured")
	// ErrCacheMiss is returned by ResolutionCache.Get for unknown keys.
	ErrCacheMiss = errors.New("cache miss")
)
