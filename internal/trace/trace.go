// Package trace captures complete decay runs for storage and analysis.
package trace

import (
	"errors"

	"github.com/san-kum/spindown/internal/wheel"
)

// MaxTicks bounds a capture; with the engine's constants even extreme
// flick velocities settle in a few hundred ticks.
const MaxTicks = 1_000_000

// ErrTruncated indicates a capture hit MaxTicks before settling.
var ErrTruncated = errors.New("trace: run did not settle within tick budget")

// Trace is the full tick series of one run.
type Trace struct {
	InitialVelocity float64   `json:"initial_velocity"`
	Times           []float64 `json:"times"`      // seconds since start, one per tick
	Deltas          []float64 `json:"deltas"`     // rotation increment per tick
	Velocities      []float64 `json:"velocities"` // post-friction velocity per tick
	Rotation        float64   `json:"rotation"`   // cumulative rotation
	Ticks           int       `json:"ticks"`
	Settled         bool      `json:"settled"`
}

// Collect runs a full decay from v0 synchronously and returns its trace.
// The engine is driven through a manual scheduler, so the capture is
// deterministic and does not sleep through real tick intervals.
func Collect(v0 float64) (*Trace, error) {
	sched := &wheel.ManualScheduler{}
	eng := wheel.NewWithScheduler(sched)

	tr := &Trace{InitialVelocity: v0}
	dt := wheel.TickInterval.Seconds()

	eng.Start(v0,
		func(delta float64) {
			tr.Ticks++
			tr.Times = append(tr.Times, float64(tr.Ticks)*dt)
			tr.Deltas = append(tr.Deltas, delta)
			tr.Velocities = append(tr.Velocities, eng.Velocity())
			tr.Rotation += delta
		},
		func() {
			tr.Settled = true
		},
	)

	for eng.Running() {
		if tr.Ticks >= MaxTicks {
			eng.Stop()
			return tr, ErrTruncated
		}
		sched.Tick()
	}

	return tr, nil
}

// PeakDelta reports the largest rotation increment magnitude in the trace.
func (t *Trace) PeakDelta() float64 {
	peak := 0.0
	for _, d := range t.Deltas {
		if d < 0 {
			d = -d
		}
		if d > peak {
			peak = d
		}
	}
	return peak
}

// Duration reports the simulated wall time covered by the trace, in seconds.
func (t *Trace) Duration() float64 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}
