package propagation

import (
	"context"
	"fmt"
	"time"

	"k8s.io/utils/clock"
)

// Check reports whether the awaited state is observable. A nil error means it is.
type Check func(ctx context.Context) error

// Waiter polls a Check with exponential backoff until it succeeds or the
// deadline passes.
type Waiter struct {
	Clock           clock.Clock
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Deadline        time.Duration
}

// Result describes how a wait ended.
type Result struct {
	Settled  bool
	Attempts int
	Elapsed  time.Duration
	LastErr  error
}

// String renders the result for log lines.
func (r Result) String() string {
	if r.Settled {
		return fmt.Sprintf("settled after %d attempt(s) in %v", r.Attempts, r.Elapsed.Round(time.Millisecond))
	}
	return fmt.Sprintf("not settled after %d attempt(s) in %v: %v", r.Attempts, r.Elapsed.Round(time.Millisecond), r.LastErr)
}

// NewWaiter returns a Waiter on the real clock.
func NewWaiter(initial, deadline time.Duration) *Waiter {
	return &Waiter{
		Clock:           clock.RealClock{},
		InitialInterval: initial,
		MaxInterval:     30 * time.Second,
		Deadline:        deadline,
	}
}

// Wait checks immediately, then again after each backoff interval. It returns
// as soon as the check succeeds. Reaching the deadline yields an unsettled
// Result and a nil error; only context cancellation is returned as an error.
func (w *Waiter) Wait(ctx context.Context, check Check) (Result, error) {
	clk := w.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	interval := w.InitialInterval
	if interval <= 0 {
		interval = time.Second
	}
	maxInterval := w.MaxInterval
	if maxInterval < interval {
		maxInterval = interval
	}

	start := clk.Now()
	var res Result
	for {
		res.Attempts++
		err := check(ctx)
		res.Elapsed = clk.Since(start)
		if err == nil {
			res.Settled = true
			res.LastErr = nil
			return res, nil
		}
		res.LastErr = err

		remaining := w.Deadline - res.Elapsed
		if remaining <= 0 {
			return res, nil
		}
		wait := interval
		if wait > remaining {
			wait = remaining
		}

		select {
		case <-ctx.Done():
			return res, fmt.Errorf("waiting for propagation: %w", ctx.Err())
		case <-clk.After(wait):
		}

		interval *= 2
		if interval > maxInterval {
			interval = maxInterval
		}
	}
}
