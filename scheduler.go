package taskdebounce

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handle identifies a single pending timer issued by a Scheduler.
// Handles are opaque and comparable, so they can be used as map keys.
type Handle struct {
	id uuid.UUID
}

// NewHandle returns a fresh unique Handle. Scheduler implementations
// use it to mint handles for the timers they arm.
func NewHandle() Handle {
	return Handle{id: uuid.New()}
}

// Scheduler is the timer collaborator used by a Debouncer.
type Scheduler interface {
	// Schedule invokes fn once with args after wait has elapsed, unless
	// the returned handle is cancelled first. A cancelled handle must
	// never be invoked.
	Schedule(wait time.Duration, fn func(args ...any), args ...any) Handle

	// Cancel discards the pending timer identified by h. Cancelling a
	// handle that already fired, or was already cancelled, is a no-op.
	Cancel(h Handle)
}

// TimerScheduler is the default Scheduler, backed by time.AfterFunc.
// Callbacks run on the timer's own goroutine. Safe for concurrent use.
type TimerScheduler struct {
	mux    sync.Mutex
	timers map[Handle]*time.Timer
}

// NewTimerScheduler returns an empty TimerScheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: map[Handle]*time.Timer{}}
}

// Schedule arms a timer that invokes fn with args after wait, and
// returns its handle.
func (s *TimerScheduler) Schedule(
	wait time.Duration,
	fn func(args ...any),
	args ...any,
) Handle {
	h := NewHandle()

	s.mux.Lock()
	defer s.mux.Unlock()

	// The timer callback blocks on the mutex until registration is
	// done, so even a zero wait cannot observe a missing handle.
	s.timers[h] = time.AfterFunc(wait, func() {
		if !s.take(h) {
			return
		}
		fn(args...)
	})

	return h
}

// Cancel stops and forgets the timer for h, if it is still pending.
func (s *TimerScheduler) Cancel(h Handle) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if t, ok := s.timers[h]; ok {
		t.Stop()
		delete(s.timers, h)
	}
}

// take claims h for firing, removing it from the pending set. A handle
// that was cancelled, or claimed by an earlier racing fire, cannot be
// taken again.
func (s *TimerScheduler) take(h Handle) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	_, ok := s.timers[h]
	delete(s.timers, h)

	return ok
}
