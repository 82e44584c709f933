package tilemask

import "time"

// Clock supplies the current time. The engine reads it for throttling
// and chunk access stamps; tests inject a fake to step time manually.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DebouncedTask is a single-slot, trailing-edge throttle for continuous
// input. Schedule stores (or merges) the parameters of the next run;
// Tick executes at most once per interval. A newer Schedule supersedes
// any pending parameters rather than queuing behind them, and Cancel
// drops them outright.
//
// The task is poll-driven: nothing runs until Tick (or Flush) is called,
// which keeps execution on the caller's thread.
type DebouncedTask[P any] struct {
	clock    Clock
	interval time.Duration
	run      func(P)
	merge    func(pending, next P) P // nil means overwrite

	pending P
	has     bool
	lastRun time.Time
}

// NewDebounced creates a debounced task.
//
// merge combines already-pending parameters with newly scheduled ones
// (e.g. a rect union); pass nil to simply overwrite. run executes the
// task and must not be nil.
func NewDebounced[P any](clock Clock, interval time.Duration, merge func(pending, next P) P, run func(P)) *DebouncedTask[P] {
	if clock == nil {
		clock = systemClock{}
	}
	return &DebouncedTask[P]{
		clock:    clock,
		interval: interval,
		merge:    merge,
		run:      run,
	}
}

// Schedule stores parameters for the next run. If parameters are already
// pending they are merged (or overwritten when no merge function was
// given); the pending slot never holds more than one entry.
func (d *DebouncedTask[P]) Schedule(p P) {
	if d.has && d.merge != nil {
		d.pending = d.merge(d.pending, p)
		return
	}
	d.pending = p
	d.has = true
}

// Tick runs the pending task if one is due. Returns true if it ran.
func (d *DebouncedTask[P]) Tick() bool {
	if !d.has {
		return false
	}
	now := d.clock.Now()
	if now.Sub(d.lastRun) < d.interval {
		return false
	}
	return d.fire(now)
}

// Flush runs any pending task immediately, ignoring the interval.
// Returns true if it ran.
func (d *DebouncedTask[P]) Flush() bool {
	if !d.has {
		return false
	}
	return d.fire(d.clock.Now())
}

// Cancel discards any pending parameters without running.
func (d *DebouncedTask[P]) Cancel() {
	var zero P
	d.pending = zero
	d.has = false
}

// Pending reports whether a run is waiting.
func (d *DebouncedTask[P]) Pending() bool { return d.has }

func (d *DebouncedTask[P]) fire(now time.Time) bool {
	p := d.pending
	var zero P
	d.pending = zero
	d.has = false
	d.lastRun = now
	d.run(p)
	return true
}
