package cachekit

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry holds a cached value with its key and expiry metadata.
// insertedAt is stamped on every write, never on read.
type entry[V any] struct {
	insertedAt time.Time
	ttl        time.Duration // 0 = never expires
	cancel     CancelFunc    // pending proactive-expiry check, nil when none
	value      V
	key        string
}

// expired reports whether the entry is stale at the given instant.
// An entry that is exactly ttl old is still live (strict greater-than).
func (e *entry[V]) expired(now time.Time) bool {
	if e.ttl == 0 {
		return false
	}
	return now.Sub(e.insertedAt) > e.ttl
}

// Cache is an in-memory key-value cache with optional LRU eviction (when a
// capacity is configured) and optional per-entry TTL expiration.
//
// It uses a hash map for O(1) lookups and a doubly-linked list for O(1)
// recency ordering: the map values are list nodes, so relocating a key to
// the front never scans the list. The most recently touched entries are at
// the front of the list; the least recently used are at the back. Both
// structures are guarded by one mutex, so every public operation is atomic
// with respect to the others.
type Cache[V any] struct {
	items    map[string]*list.Element
	eviction *list.List
	opts     *options
	onEvict  func(key string, value V)
	sf       singleflight.Group
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// New creates a cache for values of type V.
//
// Example:
//
//	c, err := cachekit.New[string](
//	    cachekit.WithCapacity(10000),
//	    cachekit.WithCleanupInterval(30 * time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
// It returns ErrInvalidCapacity or ErrInvalidCleanupInterval when the
// corresponding option is negative; invalid configuration is never clamped.
func New[V any](opts ...Option) (*Cache[V], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	c := &Cache[V]{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go c.janitor()
	}

	return c, nil
}

// MustNew is like New but panics on invalid options. It simplifies
// package-level cache variables where the options are compile-time constants.
func MustNew[V any](opts ...Option) *Cache[V] {
	c, err := New[V](opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// SetEvictCallback sets a callback invoked whenever an entry leaves the
// cache: LRU eviction, TTL expiry (lazy, proactive, or swept), Delete, and
// Clear. The callback runs while the cache lock is held and must not call
// back into the cache.
func (c *Cache[V]) SetEvictCallback(fn func(key string, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves the value cached under key and reports whether it was found.
// A hit marks the entry as most recently used. An entry found expired is
// removed on the spot and reported as a miss; it does not get a recency
// bump on the way out.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}

	e := elem.Value.(*entry[V])
	if e.expired(c.opts.clock.Now()) {
		c.removeElement(elem)
		var zero V
		return zero, false
	}

	c.eviction.MoveToFront(elem)
	return e.value, true
}

// Set caches value under key with the given TTL. A zero TTL means the entry
// never expires; a negative TTL is rejected with ErrInvalidTTL. Writing to
// an existing key replaces its value, restarts its TTL, and marks it as most
// recently used. If the write puts the cache over capacity, least recently
// used entries are evicted until it fits.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) error {
	if ttl < 0 {
		return ErrInvalidTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.clock.Now()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[V])
		c.cancelExpiry(e)
		e.value = value
		e.ttl = ttl
		e.insertedAt = now
		c.eviction.MoveToFront(elem)
		c.scheduleExpiry(e)
	} else {
		e := &entry[V]{key: key, value: value, ttl: ttl, insertedAt: now}
		c.items[key] = c.eviction.PushFront(e)
		c.scheduleExpiry(e)
	}

	// Evict from the tail until the cache fits again.
	for c.opts.capacity > 0 && len(c.items) > c.opts.capacity {
		tail := c.eviction.Back()
		if tail == nil {
			break
		}
		c.removeElement(tail)
	}

	return nil
}

// Delete removes the entry cached under key, if any, and reports whether
// one was removed. Deleting an absent key is a no-op, not an error.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	return true
}

// Has reports whether key exists and has not expired, without marking it as
// recently used. Like Get, it removes an entry it finds expired.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	if elem.Value.(*entry[V]).expired(c.opts.clock.Now()) {
		c.removeElement(elem)
		return false
	}
	return true
}

// Len returns the number of stored entries. It may count entries that have
// expired but have not been collected yet.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Cap returns the configured capacity; zero means unbounded.
func (c *Cache[V]) Cap() int { return c.opts.capacity }

// Keys returns a snapshot of all keys ordered from most to least recently
// used.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, c.eviction.Len())
	for elem := c.eviction.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(*entry[V]).key)
	}
	return out
}

// Clear removes all entries, firing the evict callback for each.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.eviction.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry[V])
		c.cancelExpiry(e)
		if c.onEvict != nil {
			c.onEvict(e.key, e.value)
		}
	}

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
}

// DeleteExpired removes all expired entries and returns how many were
// removed. The janitor calls this periodically when enabled; callers may
// also invoke it directly.
func (c *Cache[V]) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.clock.Now()
	removed := 0
	for elem := c.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry[V]).expired(now) {
			c.removeElement(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Close stops the background janitor goroutine and cancels any pending
// proactive-expiry checks. The cache itself holds no other resources and
// remains usable after Close; lazy expiry keeps working. Close is
// idempotent. It never shuts down an injected Scheduler.
func (c *Cache[V]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	for elem := c.eviction.Front(); elem != nil; elem = elem.Next() {
		c.cancelExpiry(elem.Value.(*entry[V]))
	}

	return nil
}

// janitor periodically removes expired entries until Close.
func (c *Cache[V]) janitor() {
	ticker := time.NewTicker(c.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.DeleteExpired()
		}
	}
}

// scheduleExpiry registers a proactive staleness check for the entry.
// Caller must hold the mutex.
func (c *Cache[V]) scheduleExpiry(e *entry[V]) {
	if !c.opts.proactiveExpiry || e.ttl == 0 || c.closed {
		return
	}
	key := e.key
	e.cancel = c.opts.scheduler.ScheduleAfter(func() {
		c.removeIfExpired(key)
	}, e.ttl)
}

// cancelExpiry drops the entry's pending proactive check, if any.
// Caller must hold the mutex.
func (c *Cache[V]) cancelExpiry(e *entry[V]) {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// removeIfExpired is the proactive-expiry callback. The entry is re-checked
// under the lock: if the key was refreshed or replaced after this check was
// scheduled, it is no longer stale and stays put.
func (c *Cache[V]) removeIfExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return
	}
	if elem.Value.(*entry[V]).expired(c.opts.clock.Now()) {
		c.removeElement(elem)
	}
}

// removeElement is the single removal primitive shared by Delete, LRU
// eviction, and every expiry path. It unlinks the entry from both
// structures, cancels its pending proactive check, and fires the evict
// callback. Caller must hold the mutex.
func (c *Cache[V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	e := elem.Value.(*entry[V])
	delete(c.items, e.key)
	c.cancelExpiry(e)

	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}
