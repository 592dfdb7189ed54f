// Package analysis provides closed-form predictions for the wheel's decay
// and consistency checks against recorded traces.
package analysis

import (
	"math"
	"time"

	"github.com/san-kum/spindown/internal/wheel"
)

// PredictTicks returns the number of ticks a run starting at v0 takes to
// settle: the smallest k with |v0|*Friction^k < MinVelocity. One friction
// application always happens before the settle check, so the result is
// never below one; a zero velocity settles on its first tick.
func PredictTicks(v0 float64) int {
	if v0 == 0 {
		return 1
	}
	n := int(math.Ceil(math.Log(wheel.MinVelocity/math.Abs(v0)) / math.Log(wheel.Friction)))
	if n < 1 {
		n = 1
	}
	return n
}

// SettleTime returns the wall time a run starting at v0 takes to settle.
func SettleTime(v0 float64) time.Duration {
	return time.Duration(PredictTicks(v0)) * wheel.TickInterval
}

// TotalRotation returns the signed rotation accumulated over a full decay
// from v0: the geometric sum of per-tick deltas up to the settling tick.
func TotalRotation(v0 float64) float64 {
	n := float64(PredictTicks(v0))
	dt := wheel.TickInterval.Seconds()
	f := wheel.Friction
	return v0 * dt * f * (1 - math.Pow(f, n)) / (1 - f)
}

// HalfLifeTicks returns the (fractional) number of ticks over which the
// velocity halves. It depends only on the friction coefficient.
func HalfLifeTicks() float64 {
	return math.Log(0.5) / math.Log(wheel.Friction)
}

// FitFriction recovers the per-tick decay factor from a recorded delta
// series via the mean of log-magnitude differences. It returns 0 if the
// series is too short or touches zero.
func FitFriction(deltas []float64) float64 {
	if len(deltas) < 2 {
		return 0
	}
	sum := 0.0
	count := 0
	for i := 1; i < len(deltas); i++ {
		prev, cur := math.Abs(deltas[i-1]), math.Abs(deltas[i])
		if prev == 0 || cur == 0 {
			return 0
		}
		sum += math.Log(cur) - math.Log(prev)
		count++
	}
	return math.Exp(sum / float64(count))
}

// Summary bundles the scalar metrics stored alongside a run.
func Summary(v0 float64) map[string]float64 {
	return map[string]float64{
		"predicted_ticks": float64(PredictTicks(v0)),
		"settle_time_s":   SettleTime(v0).Seconds(),
		"total_rotation":  TotalRotation(v0),
		"half_life_ticks": HalfLifeTicks(),
	}
}
