package cachekit

import "time"

type loadResult[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet retrieves a value from the cache, or calls fn to compute it on a
// miss. Concurrent misses for the same key are deduplicated with
// singleflight, so fn runs only once per flight.
//
// fn returns the value, the TTL to cache it with, and an error. If fn
// returns an error, nothing is cached and the error is returned to every
// caller of that flight.
func GetOrSet[V any](c *Cache[V], key string, fn func() (V, time.Duration, error)) (V, error) {
	// Fast path: try cache first.
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		// Re-check inside the flight: a concurrent Set may have landed
		// between the miss and the flight starting.
		if v, ok := c.Get(key); ok {
			return loadResult[V]{val: v}, nil
		}

		val, ttl, err := fn()
		if err != nil {
			return nil, err
		}

		// Best-effort cache the result.
		_ = c.Set(key, val, ttl)

		return loadResult[V]{val: val, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return v.(loadResult[V]).val, nil
}
