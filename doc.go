// Package cachekit provides a generic in-process key-value cache with LRU
// eviction and per-entry TTL expiration.
//
// The cache pairs a hash map with a doubly-linked recency list: lookups,
// recency updates, and evictions are all O(1). A single mutex guards both
// structures, so every operation is atomic and the cache is safe for
// concurrent use from any number of goroutines.
//
// # Basic Usage
//
// Create a cache for a value type, store entries with a TTL, and read them
// back:
//
//	c, err := cachekit.New[string](cachekit.WithCapacity(1000))
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	c.Set("greeting", "hello", time.Minute)
//
//	if v, ok := c.Get("greeting"); ok {
//	    fmt.Println(v)
//	}
//
//	c.Delete("greeting")
//
// TTL semantics for Set:
//   - Positive duration: the entry expires that long after the write
//   - Zero: the entry never expires
//   - Negative: rejected with ErrInvalidTTL
//
// Writing to an existing key replaces its value, restarts its TTL, and
// marks it as most recently used.
//
// # Eviction and Expiry
//
// With a non-zero capacity, a Set that overflows the cache evicts the least
// recently used entries until the cache fits. Capacity is measured in
// entries; zero means unbounded.
//
// Expired entries are collected lazily: a Get or Has that finds a stale
// entry removes it and reports a miss. Entries that are never read again
// can be reclaimed in three optional ways:
//
//	// Background janitor sweeping at a fixed interval:
//	c := cachekit.MustNew[string](cachekit.WithCleanupInterval(30 * time.Second))
//
//	// Per-entry scheduled removal at each entry's deadline:
//	c := cachekit.MustNew[string](cachekit.WithProactiveExpiry())
//
//	// Manual sweep:
//	removed := c.DeleteExpired()
//
// None of these is required for correctness; reads never return stale
// values either way.
//
// # Eviction Callbacks
//
// Register a callback to observe every removal (LRU eviction, TTL expiry,
// Delete, Clear), for example to release resources held by cached values:
//
//	c := cachekit.MustNew[*Conn](cachekit.WithCapacity(100))
//	c.SetEvictCallback(func(key string, conn *Conn) {
//	    conn.Close()
//	})
//
// # Cache Stampede Prevention
//
// Use GetOrSet to compute missing values exactly once even under concurrent
// misses; it deduplicates in-flight loads per key with singleflight:
//
//	user, err := cachekit.GetOrSet(c, "user:123", func() (User, time.Duration, error) {
//	    u, err := repo.FindUser(ctx, "123")
//	    return u, 5 * time.Minute, err
//	})
//
// # Testing
//
// Inject a clock to control time in TTL tests:
//
//	clock := &fakeClock{now: time.Now()}
//	c := cachekit.MustNew[int](cachekit.WithClock(clock))
//
//	c.Set("key", 42, time.Minute)
//	clock.Advance(2 * time.Minute)
//	_, ok := c.Get("key") // ok == false
//
// A custom Scheduler can likewise be injected with WithScheduler to make
// proactive expiry deterministic.
package cachekit
