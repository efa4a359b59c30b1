// Package taskdebounce provides per-owner debounced task scheduling,
// i.e., it ensures that a task is only executed after a certain amount
// of time has passed since the last time it was scheduled, and that no
// pending task ever runs after its owning object has been torn down.
//
// Tasks are identified per owner, either by the name of an exported
// member of the owner, or by a function value. Repeated Schedule calls
// for the same owner and task identity coalesce into a single delayed
// invocation, with the delay restarting on each call.
package taskdebounce

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Debouncer tracks pending debounced tasks for any number of owners. It
// talks to a Scheduler to arm and cancel timers, and to a Lifecycle to
// learn about owner destruction, at which point all of the owner's
// pending tasks are cancelled.
//
// All methods are safe for concurrent use.
type Debouncer struct {
	scheduler Scheduler
	lifecycle Lifecycle

	mux    sync.Mutex
	owners map[any]ownerTasks
}

// New returns a Debouncer using the given options. Without options it
// uses a TimerScheduler and a fresh Tracker.
func New(opts ...Option) *Debouncer {
	d := &Debouncer{owners: map[any]ownerTasks{}}
	for _, opt := range opts {
		opt(d)
	}

	if d.scheduler == nil {
		d.scheduler = NewTimerScheduler()
	}
	if d.lifecycle == nil {
		d.lifecycle = NewTracker()
	}

	return d
}

// Lifecycle returns the lifecycle collaborator in use. When running
// with the default Tracker, this is how callers reach its Destroy
// method.
func (d *Debouncer) Lifecycle() Lifecycle {
	return d.lifecycle
}

// Schedule arranges for task to be invoked on owner once wait has
// elapsed since the most recent Schedule call for the same owner and
// task identity. Extra args are forwarded to the task when it runs;
// when Schedule is called repeatedly within the wait window, the args
// of the most recent call win.
//
// task is either a string naming an exported method or func-typed field
// of owner, or a function value. Named members are looked up again when
// the timer fires, so a func-typed field replaced in the meantime is
// picked up.
//
// Schedule returns ErrInvalidArgument if owner is nil or not
// identity-comparable, or if task does not resolve to something
// callable, and ErrInvalidState if owner has already been destroyed.
// On error no state is recorded.
func (d *Debouncer) Schedule(
	owner, task any,
	wait time.Duration,
	args ...any,
) error {
	if owner == nil || !reflect.ValueOf(owner).Comparable() {
		return fmt.Errorf(
			"%w: owner must be a non-nil comparable value", ErrInvalidArgument,
		)
	}
	if d.lifecycle.IsDestroyed(owner) {
		return fmt.Errorf("%w: owner is already destroyed", ErrInvalidState)
	}

	key, invoke, err := resolveTask(owner, task)
	if err != nil {
		return err
	}

	d.mux.Lock()
	defer d.mux.Unlock()

	tasks := d.tasksFor(owner)

	// Destruction may have won the race between the check above and the
	// teardown registration inside tasksFor. The lifecycle drops late
	// registrations, so nobody would be left to cancel this timer:
	// unwind instead of arming it. The destroyed flag is monotonic, so
	// a dropped registration is always visible here.
	if d.lifecycle.IsDestroyed(owner) {
		if len(tasks) == 0 {
			delete(d.owners, owner)
		}

		return fmt.Errorf("%w: owner is already destroyed", ErrInvalidState)
	}

	p, ok := tasks[key]
	if !ok {
		p = &pending{}
		p.callback = d.fired(owner, key, p, invoke)
		tasks[key] = p
	} else {
		// Reuse the coalesced callback, but make sure the old timer can
		// no longer fire before arming the new one.
		d.scheduler.Cancel(p.handle)
	}

	// The arming generation travels through the scheduler's opaque args
	// and is stripped again by the coalesced callback, so a timer that
	// slips past its cancellation identifies itself as stale.
	p.gen++
	p.handle = d.scheduler.Schedule(
		wait, p.callback, append([]any{p.gen}, args...)...,
	)

	return nil
}

// Cancel discards any pending debounced task for the given owner and
// task identity. It is a no-op if nothing is pending, and never fails.
// After Cancel, the next Schedule call for the same pair starts a fresh
// debounce.
func (d *Debouncer) Cancel(owner, task any) {
	if owner == nil || !reflect.ValueOf(owner).Comparable() {
		return
	}
	key, ok := identityKey(task)
	if !ok {
		return
	}

	d.mux.Lock()
	defer d.mux.Unlock()

	tasks := d.pendingTasks(owner)
	p, ok := tasks[key]
	if !ok {
		return
	}

	delete(tasks, key)
	d.scheduler.Cancel(p.handle)
}

// fired builds the coalesced callback for a single pending debounce. It
// is created once per pending entry and shared by every Schedule call
// that coalesces into it. When the scheduler invokes it, it removes its
// own entry first, so a later Schedule call starts fresh, and then runs
// the task.
//
// A stale firing does nothing: either its entry is gone (cancelled,
// torn down, or already fired), or the entry was re-armed since, which
// the generation carried in the leading arg reveals.
func (d *Debouncer) fired(
	owner any,
	key taskKey,
	p *pending,
	invoke func(args ...any),
) func(args ...any) {
	return func(args ...any) {
		var gen uint64
		if len(args) > 0 {
			gen, _ = args[0].(uint64)
			args = args[1:]
		}

		d.mux.Lock()
		tasks := d.owners[owner]
		current := tasks != nil && tasks[key] == p && p.gen == gen
		if current {
			delete(tasks, key)
		}
		d.mux.Unlock()

		if current {
			invoke(args...)
		}
	}
}
