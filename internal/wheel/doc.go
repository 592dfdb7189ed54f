// Package wheel simulates the inertial spin-down of a circular wheel.
//
// The package defines the decay engine that turns an initial angular
// velocity into a stream of per-tick rotation increments:
//
//   - [Engine]: the run lifecycle (Start, Stop, SetVelocity)
//   - [Scheduler]: periodic tick source, real or manual
//   - [UpdateFunc], [CompleteFunc]: per-tick and settling callbacks
//
// Each tick multiplies the velocity by [Friction] and reports a rotation
// delta of velocity integrated over one [TickInterval]. When the velocity
// magnitude falls below [MinVelocity] the run settles and the completion
// callback fires exactly once.
//
// # Example
//
//	eng := wheel.New()
//	eng.Start(12.0, func(delta float64) {
//		angle += delta
//	}, func() {
//		snapToNearestItem(angle)
//	})
//
// # Thread Safety
//
// Engine operations are safe for concurrent use. Callbacks are delivered
// on the tick goroutine and may call back into the engine.
package wheel
