package retry

import (
	"log/slog"
	"sync"
)

// DefaultMaxRetries is the number of extra attempts a failed test gets.
const DefaultMaxRetries = 2

// Outcome is what the caller knows about one finished attempt.
type Outcome struct {
	Passed   bool
	Category FailureCategory
	// Test names the test in log lines only.
	Test string
}

// Failed builds the outcome of an attempt that ended with err.
func Failed(test string, err error) Outcome {
	return Outcome{Test: test, Category: Classify(err)}
}

// State is the retry bookkeeping of one test. The caller owns it and stores it
// next to the test result; the zero value is a test that never retried.
type State struct {
	Retries     int  `json:"retries"`
	NoMoreRetry bool `json:"no_more_retry"`
}

// Attempt is the 1-based number of the attempt that just finished.
func (s State) Attempt() int { return s.Retries + 1 }

// Analyzer decides whether failed attempts are retried.
type Analyzer struct {
	maxRetries int
	mu         sync.Mutex
}

// NewAnalyzer returns an analyzer allowing maxRetries extra attempts per test.
func NewAnalyzer(maxRetries int) *Analyzer {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Analyzer{maxRetries: maxRetries}
}

// MaxRetries returns the configured number of extra attempts.
func (a *Analyzer) MaxRetries() int { return a.maxRetries }

// decision is the shared rule of Retry and Peek.
func (a *Analyzer) decide(o Outcome, s State) (retry bool, reason string) {
	switch {
	case o.Passed:
		return false, "passed"
	case s.NoMoreRetry:
		return false, "retries disabled for this test"
	case s.Attempt() > a.maxRetries:
		return false, "max retry count reached"
	case !o.Category.Retryable():
		return false, "failure is not retryable"
	}
	return true, ""
}

// Retry decides for the attempt that just finished and updates s: a retry
// consumes one slot, a refusal on a failure sets NoMoreRetry.
// Calls are serialized so concurrent attempts of one test see consistent state.
func (a *Analyzer) Retry(o Outcome, s *State) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	retry, reason := a.decide(o, *s)
	if !retry {
		if !o.Passed {
			s.NoMoreRetry = true
			slog.Default().Info("not retrying test",
				"test", o.Test,
				"attempt", s.Attempt(),
				"max_retries", a.maxRetries,
				"category", o.Category.String(),
				"reason", reason,
			)
		}
		return false
	}

	s.Retries++
	slog.Default().Info("retrying test",
		"test", o.Test,
		"retry", s.Retries,
		"max_retries", a.maxRetries,
		"category", o.Category.String(),
	)
	return true
}

// Peek tells what Retry would answer for o without touching any state.
func (a *Analyzer) Peek(o Outcome, s State) bool {
	retry, _ := a.decide(o, s)
	return retry
}

// WillBeRetried reports whether a test in state s still has a retry slot.
func (a *Analyzer) WillBeRetried(s State) bool {
	return !s.NoMoreRetry && s.Retries < a.maxRetries
}
