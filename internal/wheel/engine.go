package wheel

import (
	"math"
	"sync"
	"time"
)

const (
	// TickInterval is the fixed evaluation period. Friction below is a
	// per-tick factor, so the two constants are tuned as a pair: changing
	// one without the other changes the deceleration curve.
	TickInterval = 8 * time.Millisecond

	// Friction is the multiplicative velocity decay applied each tick.
	Friction = 0.95

	// MinVelocity is the magnitude below which a run settles.
	MinVelocity = 0.01
)

// UpdateFunc receives the rotation increment produced by one tick.
type UpdateFunc func(delta float64)

// CompleteFunc is invoked once when a run settles naturally.
type CompleteFunc func()

// run holds the callbacks of a single Start-to-stop lifetime. A run is
// identified by its generation; ticks carrying a stale generation are
// discarded.
type run struct {
	gen        uint64
	onUpdate   UpdateFunc
	onComplete CompleteFunc
	cancel     CancelFunc
}

// Engine drives the spin-down of one wheel. The zero value is not usable;
// construct with New or NewWithScheduler.
type Engine struct {
	mu       sync.Mutex
	sched    Scheduler
	velocity float64
	gen      uint64
	run      *run // nil while idle
}

// New returns an engine ticking on a real timer at TickInterval.
func New() *Engine {
	return NewWithScheduler(TimerScheduler{})
}

// NewWithScheduler returns an engine driven by the given scheduler.
func NewWithScheduler(s Scheduler) *Engine {
	return &Engine{sched: s}
}

// SetVelocity overwrites the stored velocity. It never starts or stops a
// run and never triggers a callback; a running tick observes the new value
// at its next evaluation.
func (e *Engine) SetVelocity(v float64) {
	e.mu.Lock()
	e.velocity = v
	e.mu.Unlock()
}

// Velocity reports the current signed angular velocity.
func (e *Engine) Velocity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.velocity
}

// Running reports whether a tick cycle is currently scheduled.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run != nil
}

// Start begins a new run with the given initial velocity. Any run already
// in progress is cancelled first: its remaining ticks are discarded, its
// callbacks are dropped without firing, and its velocity does not leak into
// the new run. Nil callbacks are treated as no-ops.
func (e *Engine) Start(initialVelocity float64, onUpdate UpdateFunc, onComplete CompleteFunc) {
	if onUpdate == nil {
		onUpdate = func(float64) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}

	e.mu.Lock()
	e.stopLocked()
	e.velocity = initialVelocity
	e.gen++
	r := &run{gen: e.gen, onUpdate: onUpdate, onComplete: onComplete}
	e.run = r
	gen := r.gen
	r.cancel = e.sched.Schedule(TickInterval, func() { e.tick(gen) })
	e.mu.Unlock()
}

// Stop cancels the current run, zeroes the velocity, and drops both
// callbacks without invoking them. Stopping an idle engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopLocked()
	e.mu.Unlock()
}

func (e *Engine) stopLocked() {
	if e.run == nil {
		return
	}
	r := e.run
	e.run = nil
	e.velocity = 0
	if r.cancel != nil {
		r.cancel()
	}
}

// tick evaluates one step of the decay: apply friction, report the delta,
// then settle if the velocity has dropped below the threshold. Callbacks
// run with the lock released, so the run is re-checked after onUpdate
// returns; a Stop or Start issued from inside the callback ends the tick
// at that point and suppresses completion for the superseded run.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	r := e.run
	if r == nil || r.gen != gen {
		e.mu.Unlock()
		return
	}
	e.velocity *= Friction
	delta := e.velocity * TickInterval.Seconds()
	e.mu.Unlock()

	r.onUpdate(delta)

	e.mu.Lock()
	if e.run != r {
		e.mu.Unlock()
		return
	}
	if math.Abs(e.velocity) >= MinVelocity {
		e.mu.Unlock()
		return
	}
	e.stopLocked()
	e.mu.Unlock()

	// State is already reset, so onComplete may immediately Start again.
	r.onComplete()
}
