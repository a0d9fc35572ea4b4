package cachekit

import "time"

// Option configures the cache.
type Option func(*options)

type options struct {
	clock           Clock
	scheduler       Scheduler
	cleanupInterval time.Duration
	capacity        int
	proactiveExpiry bool
}

func defaultOptions() *options {
	return &options{
		clock:     systemClock{},
		scheduler: NewTimerScheduler(),
	}
}

// validate rejects invalid configuration instead of clamping it.
func (o *options) validate() error {
	if o.capacity < 0 {
		return ErrInvalidCapacity
	}
	if o.cleanupInterval < 0 {
		return ErrInvalidCleanupInterval
	}
	return nil
}

// WithCapacity sets the maximum number of entries in the cache. When a Set
// pushes the cache over capacity, the least recently used entries are
// evicted until the cache fits again. Zero means unbounded.
// Default: 0 (unbounded).
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithCleanupInterval starts a background janitor goroutine that removes
// expired entries at the given interval. Zero disables the janitor; expired
// entries are then collected lazily when accessed. The janitor only
// reclaims memory sooner; expiry is always enforced on read regardless.
// Default: 0 (disabled).
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		o.cleanupInterval = d
	}
}

// WithClock injects a custom time source, useful for deterministic TTL
// tests. Default: the system clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithScheduler injects a custom Scheduler used for proactive expiry.
// The cache does not take ownership: Close never shuts the scheduler down.
// Default: a timer-backed scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithProactiveExpiry makes the cache schedule a removal check for every
// entry written with a non-zero TTL, so expired entries are reclaimed even
// if never read again. Each Set replaces the entry's pending check; Delete,
// eviction, Clear, and Close cancel it. Lazy expiry on read stays in effect.
// Default: off (lazy expiry only).
func WithProactiveExpiry() Option {
	return func(o *options) {
		o.proactiveExpiry = true
	}
}
