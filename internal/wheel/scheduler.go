package wheel

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled tick cycle. It is idempotent.
type CancelFunc func()

// Scheduler produces the periodic tick that drives a run. The engine never
// assumes a particular time source, so tests and offline capture can
// substitute a manual implementation.
type Scheduler interface {
	Schedule(period time.Duration, fn func()) CancelFunc
}

// TimerScheduler ticks on a real time.Ticker in a dedicated goroutine.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(period time.Duration, fn func()) CancelFunc {
	t := time.NewTicker(period)
	done := make(chan struct{})

	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// ManualScheduler delivers ticks only when Tick is called, giving callers
// full control over time. Not safe for concurrent use; it exists for
// single-goroutine driving.
type ManualScheduler struct {
	fn  func()
	gen int
}

func (m *ManualScheduler) Schedule(_ time.Duration, fn func()) CancelFunc {
	m.gen++
	g := m.gen
	m.fn = fn
	return func() {
		// Only unregister if a newer Schedule has not replaced us.
		if m.gen == g {
			m.fn = nil
		}
	}
}

// Tick fires one scheduled evaluation, if any cycle is registered.
func (m *ManualScheduler) Tick() {
	if m.fn != nil {
		m.fn()
	}
}

// Active reports whether a tick cycle is currently registered.
func (m *ManualScheduler) Active() bool {
	return m.fn != nil
}
