package cachekit

import "errors"

// Sentinel errors for cache construction and writes.
var (
	// ErrInvalidCapacity is returned by New when a negative capacity is configured.
	ErrInvalidCapacity = errors.New("cachekit: capacity must not be negative")

	// ErrInvalidTTL is returned by Set when a negative TTL is given.
	ErrInvalidTTL = errors.New("cachekit: ttl must not be negative")

	// ErrInvalidCleanupInterval is returned by New when a negative cleanup
	// interval is configured.
	ErrInvalidCleanupInterval = errors.New("cachekit: cleanup interval must not be negative")
)
