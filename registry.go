package taskdebounce

// ownerTasks maps task identities to their pending debounce for a
// single owner. One is created lazily on the owner's first Schedule
// call and is dropped again when the owner is torn down.
type ownerTasks map[taskKey]*pending

// pending is the state of one debounced task: the coalesced callback
// shared across Schedule calls, the handle of the currently armed
// timer, and the arming generation. The handle is replaced and the
// generation bumped on every Schedule call, the callback never is. A
// firing carries the generation it was armed under; only the most
// recent one may run.
type pending struct {
	callback func(args ...any)
	handle   Handle
	gen      uint64
}

// tasksFor returns the owner's task map, creating it if needed. On
// creation the owner's teardown hook is registered, exactly once per
// owner. It must only be called while the mutex is already locked.
func (d *Debouncer) tasksFor(owner any) ownerTasks {
	tasks, ok := d.owners[owner]
	if !ok {
		tasks = ownerTasks{}
		d.owners[owner] = tasks
		d.lifecycle.OnTeardown(owner, func() {
			d.teardown(owner)
		})
	}

	return tasks
}

// pendingTasks is a pure lookup, returning nil if the owner has no task
// map. It must only be called while the mutex is already locked.
func (d *Debouncer) pendingTasks(owner any) ownerTasks {
	return d.owners[owner]
}

// teardown is the per-owner cleanup hook, run once by the lifecycle
// collaborator when the owner is destroyed. It cancels every timer the
// owner still has pending and drops the owner's registry entry, so the
// Debouncer never retains destroyed owners. Safe to run when nothing is
// pending.
func (d *Debouncer) teardown(owner any) {
	d.mux.Lock()
	defer d.mux.Unlock()

	for _, p := range d.owners[owner] {
		d.scheduler.Cancel(p.handle)
	}
	delete(d.owners, owner)
}
