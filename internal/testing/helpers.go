package testing

import (
	"context"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewSteppingClock returns a fake clock that advances by step whenever a
// goroutine is blocked on it. Code under test that sleeps on the clock runs
// without wall-clock delay.
func NewSteppingClock(t testing.TB, step time.Duration) *testingclock.FakeClock {
	t.Helper()
	fc := testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			if fc.HasWaiters() {
				fc.Step(step)
			}
			time.Sleep(time.Millisecond)
		}
	}()
	return fc
}
