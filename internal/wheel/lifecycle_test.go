package wheel_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spindown/internal/wheel"
)

var _ = Describe("Engine lifecycle", func() {
	var (
		sched *wheel.ManualScheduler
		eng   *wheel.Engine
	)

	BeforeEach(func() {
		sched = &wheel.ManualScheduler{}
		eng = wheel.NewWithScheduler(sched)
	})

	settle := func(max int) int {
		ticks := 0
		for eng.Running() && ticks < max {
			sched.Tick()
			ticks++
		}
		Expect(eng.Running()).To(BeFalse(), "engine did not settle")
		return ticks
	}

	It("starts idle with zero velocity", func() {
		Expect(eng.Running()).To(BeFalse())
		Expect(eng.Velocity()).To(BeZero())
	})

	It("transitions Idle -> Running on Start and back on settling", func() {
		eng.Start(1.0, func(float64) {}, func() {})
		Expect(eng.Running()).To(BeTrue())

		settle(1000)
		Expect(eng.Velocity()).To(BeZero())
	})

	It("decays velocity geometrically while running", func() {
		eng.Start(2.0, func(float64) {}, func() {})
		sched.Tick()
		Expect(eng.Velocity()).To(BeNumerically("~", 2.0*wheel.Friction, 1e-12))
		sched.Tick()
		Expect(eng.Velocity()).To(BeNumerically("~", 2.0*wheel.Friction*wheel.Friction, 1e-12))
	})

	It("fires completion exactly once per uninterrupted run", func() {
		completions := 0
		eng.Start(1.0, func(float64) {}, func() { completions++ })
		settle(1000)

		for i := 0; i < 5; i++ {
			sched.Tick()
		}
		Expect(completions).To(Equal(1))
	})

	It("keeps deltas strictly ordered and preserves the sign of the spin", func() {
		var deltas []float64
		eng.Start(-6.0, func(d float64) { deltas = append(deltas, d) }, func() {})
		settle(1000)

		for i, d := range deltas {
			Expect(d).To(BeNumerically("<", 0), "backspin deltas stay negative")
			if i > 0 {
				Expect(math.Abs(d)).To(BeNumerically("<", math.Abs(deltas[i-1])))
			}
		}
	})

	It("replaces the run atomically when restarted mid-flight", func() {
		stale := 0
		eng.Start(50.0, func(float64) { stale++ }, func() { stale += 100 })
		sched.Tick()
		sched.Tick()

		fresh := 0
		eng.Start(0.5, func(float64) { fresh++ }, func() {})
		before := stale
		settle(1000)

		Expect(stale).To(Equal(before), "no stale callback after restart")
		Expect(fresh).To(BeNumerically(">", 0))
	})

	It("treats repeated Stop calls as no-ops", func() {
		eng.Start(1.0, func(float64) {}, func() {})
		eng.Stop()
		Expect(func() { eng.Stop(); eng.Stop() }).NotTo(Panic())
		Expect(eng.Running()).To(BeFalse())
	})

	It("does not carry residual velocity across a stop/start boundary", func() {
		eng.Start(30.0, func(float64) {}, func() {})
		sched.Tick()
		eng.Stop()
		Expect(eng.Velocity()).To(BeZero())

		var first float64
		eng.Start(1.0, func(d float64) {
			if first == 0 {
				first = d
			}
		}, func() {})
		sched.Tick()
		Expect(first).To(BeNumerically("~", 1.0*wheel.Friction*wheel.TickInterval.Seconds(), 1e-12))
	})
})
