package cachekit_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachekit"
)

// fakeScheduler records scheduled callbacks so tests can fire them
// deterministically and count cancellations.
type fakeScheduler struct {
	mu      sync.Mutex
	fns     []func()
	delays  []time.Duration
	cancels int
}

func (s *fakeScheduler) ScheduleAfter(fn func(), delay time.Duration) cachekit.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
	s.delays = append(s.delays, delay)
	return func() {
		s.mu.Lock()
		s.cancels++
		s.mu.Unlock()
	}
}

// fireAll invokes every recorded callback outside the scheduler lock.
func (s *fakeScheduler) fireAll() {
	s.mu.Lock()
	fns := make([]func(), len(s.fns))
	copy(fns, s.fns)
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *fakeScheduler) cancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

func (s *fakeScheduler) scheduled() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.delays))
	copy(out, s.delays)
	return out
}

// --- Timer Scheduler ---

func TestTimerScheduler(t *testing.T) {
	t.Parallel()

	t.Run("fires once after delay", func(t *testing.T) {
		t.Parallel()

		s := cachekit.NewTimerScheduler()

		var fired atomic.Int32
		start := time.Now()
		done := make(chan struct{})
		s.ScheduleAfter(func() {
			fired.Add(1)
			close(done)
		}, 20*time.Millisecond)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("callback never fired")
		}

		require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond, "fired too early")

		// No second invocation.
		time.Sleep(50 * time.Millisecond)
		require.Equal(t, int32(1), fired.Load())
	})

	t.Run("cancel prevents firing", func(t *testing.T) {
		t.Parallel()

		s := cachekit.NewTimerScheduler()

		var fired atomic.Int32
		cancel := s.ScheduleAfter(func() { fired.Add(1) }, 20*time.Millisecond)
		cancel()

		time.Sleep(60 * time.Millisecond)
		require.Equal(t, int32(0), fired.Load())
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		t.Parallel()

		s := cachekit.NewTimerScheduler()

		cancel := s.ScheduleAfter(func() {}, 20*time.Millisecond)
		cancel()
		cancel()
	})

	t.Run("cancel after firing is a no-op", func(t *testing.T) {
		t.Parallel()

		s := cachekit.NewTimerScheduler()

		done := make(chan struct{})
		cancel := s.ScheduleAfter(func() { close(done) }, time.Millisecond)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("callback never fired")
		}

		cancel()
	})
}

// --- Proactive Expiry ---

func TestCache_ProactiveExpiry(t *testing.T) {
	t.Parallel()

	t.Run("schedules a check per write with the entry ttl", func(t *testing.T) {
		t.Parallel()

		sched := &fakeScheduler{}
		c := cachekit.MustNew[string](
			cachekit.WithProactiveExpiry(),
			cachekit.WithScheduler(sched),
		)
		defer c.Close()

		require.NoError(t, c.Set("key", "value", 100*time.Millisecond))
		require.Equal(t, []time.Duration{100 * time.Millisecond}, sched.scheduled())
	})

	t.Run("eternal entries are never scheduled", func(t *testing.T) {
		t.Parallel()

		sched := &fakeScheduler{}
		c := cachekit.MustNew[string](
			cachekit.WithProactiveExpiry(),
			cachekit.WithScheduler(sched),
		)
		defer c.Close()

		require.NoError(t, c.Set("key", "value", 0))
		require.Empty(t, sched.scheduled())
	})

	t.Run("callback removes a stale entry", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		sched := &fakeScheduler{}
		c := cachekit.MustNew[string](
			cachekit.WithProactiveExpiry(),
			cachekit.WithScheduler(sched),
			cachekit.WithClock(clock),
		)
		defer c.Close()

		require.NoError(t, c.Set("key", "value", 100*time.Millisecond))

		clock.Advance(101 * time.Millisecond)
		sched.fireAll()

		require.Equal(t, 0, c.Len(), "entry should be removed without any read")
	})

	t.Run("stale callback leaves a refreshed entry alone", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		sched := &fakeScheduler{}
		c := cachekit.MustNew[string](
			cachekit.WithProactiveExpiry(),
			cachekit.WithScheduler(sched),
			cachekit.WithClock(clock),
		)
		defer c.Close()

		require.NoError(t, c.Set("key", "v1", 100*time.Millisecond))
		clock.Advance(90 * time.Millisecond)
		require.NoError(t, c.Set("key", "v2", 100*time.Millisecond))
		clock.Advance(20 * time.Millisecond)

		// The first check's deadline has passed, but the refresh restarted
		// the ttl clock. Firing every recorded callback must keep the entry.
		sched.fireAll()

		v, ok := c.Get("key")
		require.True(t, ok)
		require.Equal(t, "v2", v)
	})

	t.Run("refresh cancels the previous check", func(t *testing.T) {
		t.Parallel()

		sched := &fakeScheduler{}
		c := cachekit.MustNew[string](
			cachekit.WithProactiveExpiry(),
			cachekit.WithScheduler(sched),
		)
		defer c.Close()

		require.NoError(t, c.Set("key", "v1", time.Minute))
		require.NoError(t, c.Set("key", "v2", time.Minute))

		require.Equal(t, 1, sched.cancelCount())
	})

	t.Run("delete cancels the pending check", func(t *testing.T) {
		t.Parallel()

		sched := &fakeScheduler{}
		c := cachekit.MustNew[string](
			cachekit.WithProactiveExpiry(),
			cachekit.WithScheduler(sched),
		)
		defer c.Close()

		require.NoError(t, c.Set("key", "value", time.Minute))
		require.True(t, c.Delete("key"))

		require.Equal(t, 1, sched.cancelCount())
	})

	t.Run("close cancels all pending checks", func(t *testing.T) {
		t.Parallel()

		sched := &fakeScheduler{}
		c := cachekit.MustNew[string](
			cachekit.WithProactiveExpiry(),
			cachekit.WithScheduler(sched),
		)

		require.NoError(t, c.Set("a", "1", time.Minute))
		require.NoError(t, c.Set("b", "2", time.Minute))
		require.NoError(t, c.Close())

		require.Equal(t, 2, sched.cancelCount())
	})

	t.Run("end to end with the timer scheduler", func(t *testing.T) {
		t.Parallel()

		c := cachekit.MustNew[string](cachekit.WithProactiveExpiry())
		defer c.Close()

		require.NoError(t, c.Set("key", "value", 20*time.Millisecond))

		// No reads: only the scheduled check can reclaim the entry.
		require.Eventually(t, func() bool {
			return c.Len() == 0
		}, time.Second, 5*time.Millisecond)
	})
}
