package cachekit

import "time"

// Clock provides the cache's notion of time. The cache reads the clock on
// every write (to stamp entries) and on every read (to evaluate expiry),
// so a test can inject a fake clock and step it deterministically.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
