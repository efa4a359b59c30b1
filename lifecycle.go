package taskdebounce

import "sync"

// Lifecycle is the destruction-notification collaborator used by a
// Debouncer. It answers whether an owner is already gone, and runs
// registered cleanup actions when an owner is torn down.
type Lifecycle interface {
	// IsDestroyed reports whether owner's teardown has already
	// occurred.
	IsDestroyed(owner any) bool

	// OnTeardown registers action to run exactly once when owner is
	// torn down. Registering against an already destroyed owner drops
	// the action.
	OnTeardown(owner any, action func())
}

// Tracker is the default in-process Lifecycle. Owners are registered
// implicitly by OnTeardown and destroyed explicitly with Destroy.
//
// A Tracker remembers which owners were destroyed so that IsDestroyed
// stays accurate; call Forget to release that marker when churning
// through many short-lived owners. Safe for concurrent use.
type Tracker struct {
	mux       sync.Mutex
	destroyed map[any]struct{}
	actions   map[any][]func()
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		destroyed: map[any]struct{}{},
		actions:   map[any][]func(){},
	}
}

// IsDestroyed reports whether Destroy was called for owner.
func (t *Tracker) IsDestroyed(owner any) bool {
	t.mux.Lock()
	defer t.mux.Unlock()

	_, ok := t.destroyed[owner]

	return ok
}

// OnTeardown registers action to run when owner is destroyed. Actions
// run in registration order.
func (t *Tracker) OnTeardown(owner any, action func()) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if _, ok := t.destroyed[owner]; ok {
		return
	}
	t.actions[owner] = append(t.actions[owner], action)
}

// Destroy marks owner as destroyed and runs its teardown actions, each
// exactly once. Destroying an owner again is a no-op. Actions run after
// the Tracker releases its lock, so they may call back into it.
func (t *Tracker) Destroy(owner any) {
	t.mux.Lock()
	if _, ok := t.destroyed[owner]; ok {
		t.mux.Unlock()

		return
	}
	t.destroyed[owner] = struct{}{}
	actions := t.actions[owner]
	delete(t.actions, owner)
	t.mux.Unlock()

	for _, action := range actions {
		action()
	}
}

// Forget releases all bookkeeping for owner, including its destroyed
// marker and any actions not yet run. After Forget, IsDestroyed reports
// false again, so only call it once nothing can schedule against the
// owner anymore.
func (t *Tracker) Forget(owner any) {
	t.mux.Lock()
	defer t.mux.Unlock()

	delete(t.destroyed, owner)
	delete(t.actions, owner)
}
