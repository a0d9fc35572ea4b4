package cachekit

import "time"

// CancelFunc cancels a scheduled callback. Calling it prevents the callback
// from firing if it has not fired yet. It is idempotent: calling it multiple
// times, or after the callback has already fired, is a harmless no-op.
type CancelFunc func()

// Scheduler is a deferred-execution capability: it invokes a callback once,
// asynchronously, no earlier than the given delay from now.
//
// The cache holds a Scheduler for its whole lifetime and uses it only when
// proactive expiry is enabled (see WithProactiveExpiry); lazy expiry on read
// never depends on it. An injected Scheduler is treated as a shared
// capability: the cache never shuts it down.
//
// Callbacks run on the scheduler's own execution context, never on a caller's
// goroutine. A CancelFunc returned by ScheduleAfter must not call back into
// the scheduler's clients.
type Scheduler interface {
	ScheduleAfter(fn func(), delay time.Duration) CancelFunc
}

// timerScheduler is the default Scheduler, backed by runtime timers.
// time.AfterFunc runs each callback on its own goroutine.
type timerScheduler struct{}

// NewTimerScheduler returns the default timer-backed Scheduler.
func NewTimerScheduler() Scheduler { return timerScheduler{} }

func (timerScheduler) ScheduleAfter(fn func(), delay time.Duration) CancelFunc {
	t := time.AfterFunc(delay, fn)
	// Timer.Stop is safe to call repeatedly and after the timer has fired,
	// which gives CancelFunc its idempotence for free.
	return func() { t.Stop() }
}
