package trace

import (
	"math"
	"testing"

	"github.com/san-kum/spindown/internal/wheel"
)

func TestCollectUnitVelocity(t *testing.T) {
	tr, err := Collect(1.0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if tr.Ticks != 90 {
		t.Errorf("expected 90 ticks, got %d", tr.Ticks)
	}
	if !tr.Settled {
		t.Error("expected settled trace")
	}
	if len(tr.Deltas) != tr.Ticks || len(tr.Times) != tr.Ticks || len(tr.Velocities) != tr.Ticks {
		t.Fatalf("series length mismatch: %d deltas, %d times, %d velocities for %d ticks",
			len(tr.Deltas), len(tr.Times), len(tr.Velocities), tr.Ticks)
	}

	dt := wheel.TickInterval.Seconds()
	want := 0.0
	for k := 1; k <= tr.Ticks; k++ {
		want += math.Pow(wheel.Friction, float64(k)) * dt
	}
	if math.Abs(tr.Rotation-want) > 1e-9 {
		t.Errorf("rotation: expected %v, got %v", want, tr.Rotation)
	}

	if math.Abs(tr.PeakDelta()-tr.Deltas[0]) > 1e-15 {
		t.Errorf("peak delta should be the first tick, got %v vs %v", tr.PeakDelta(), tr.Deltas[0])
	}
	if math.Abs(tr.Duration()-float64(tr.Ticks)*dt) > 1e-12 {
		t.Errorf("duration: expected %v, got %v", float64(tr.Ticks)*dt, tr.Duration())
	}
}

func TestCollectZeroVelocity(t *testing.T) {
	tr, err := Collect(0.0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if tr.Ticks != 1 {
		t.Errorf("expected 1 tick, got %d", tr.Ticks)
	}
	if tr.Deltas[0] != 0 {
		t.Errorf("expected zero delta, got %v", tr.Deltas[0])
	}
	if !tr.Settled {
		t.Error("expected settled trace")
	}
	if tr.Rotation != 0 {
		t.Errorf("expected zero rotation, got %v", tr.Rotation)
	}
}

func TestCollectBackspin(t *testing.T) {
	tr, err := Collect(-8.0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if tr.Rotation >= 0 {
		t.Errorf("backspin should accumulate negative rotation, got %v", tr.Rotation)
	}
	for i, d := range tr.Deltas {
		if d >= 0 {
			t.Fatalf("tick %d: expected negative delta, got %v", i+1, d)
		}
	}
}
