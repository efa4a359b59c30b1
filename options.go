package taskdebounce

// Option is a function that can be used to configure a Debouncer
// created by New.
type Option func(*Debouncer)

// WithScheduler returns an option that makes the Debouncer arm its
// timers through the given Scheduler instead of the default
// TimerScheduler. Useful for driving tests with a simulated clock, or
// for running on top of an existing event loop.
func WithScheduler(s Scheduler) Option {
	return func(d *Debouncer) {
		if s != nil {
			d.scheduler = s
		}
	}
}

// WithLifecycle returns an option that makes the Debouncer consult the
// given Lifecycle for owner destruction instead of a fresh Tracker.
// Pass this when your owners already have a lifecycle manager, so
// pending tasks are cancelled by the teardown you already run.
func WithLifecycle(lc Lifecycle) Option {
	return func(d *Debouncer) {
		if lc != nil {
			d.lifecycle = lc
		}
	}
}
