package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// AttemptFunc runs one attempt of a test. attempt starts at 1.
type AttemptFunc func(ctx context.Context, attempt int) error

// Run calls fn until it succeeds or the analyzer refuses a retry, pausing
// between attempts as told by policy (nil means no pause). It returns the
// final state and the error of the last attempt.
func Run(ctx context.Context, test string, a *Analyzer, policy backoff.BackOff, fn AttemptFunc) (State, error) {
	if policy == nil {
		policy = &backoff.ZeroBackOff{}
	}
	policy.Reset()

	var state State
	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		err := fn(ctx, state.Attempt())
		if err == nil {
			a.Retry(Outcome{Passed: true, Test: test}, &state)
			return state, nil
		}
		out := Failed(test, err)
		if !a.Peek(out, state) {
			a.Retry(out, &state)
			return state, err
		}
		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			state.NoMoreRetry = true
			return state, err
		}
		a.Retry(out, &state)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return state, ctx.Err()
			case <-timer.C:
			}
		}
	}
}
