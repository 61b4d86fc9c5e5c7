// Package retry decides whether a failed test execution is run again.
//
// The decision only looks at a closed set of failure categories produced by
// the caller, plus an explicit per-test State. Nothing is kept in the Analyzer
// between tests, so one Analyzer can serve every test of a run.
package retry

import (
	"errors"
	"fmt"
	"strings"
)

// FailureCategory classifies why a test execution failed.
type FailureCategory int

const (
	// CategoryUnknown is any failure the caller could not classify. It retries.
	CategoryUnknown FailureCategory = iota
	// CategoryAssertion is a test expectation that was not met.
	CategoryAssertion
	// CategoryApplication is an error reported by the application under test.
	CategoryApplication
	// CategoryInfrastructure is a transient fault of the test infrastructure
	// (browser crash, lost session, node that cannot be reused).
	CategoryInfrastructure
	// CategoryGridNodeUnavailable means no grid node can run the test at all.
	CategoryGridNodeUnavailable
)

var categoryNames = map[FailureCategory]string{
	CategoryUnknown:             "unknown",
	CategoryAssertion:           "assertion",
	CategoryApplication:         "application",
	CategoryInfrastructure:      "infrastructure",
	CategoryGridNodeUnavailable: "grid_node_unavailable",
}

// nonRetryableCategories are failures a new attempt would not change.
var nonRetryableCategories = map[FailureCategory]bool{
	CategoryAssertion:           true,
	CategoryApplication:         true,
	CategoryGridNodeUnavailable: true,
}

func (c FailureCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Retryable reports whether a failure of this category may be retried.
func (c FailureCategory) Retryable() bool {
	return !nonRetryableCategories[c]
}

// Categories lists every category name, in declaration order.
func Categories() []string {
	out := make([]string, 0, len(categoryNames))
	for c := CategoryUnknown; c <= CategoryGridNodeUnavailable; c++ {
		out = append(out, c.String())
	}
	return out
}

// ParseCategory maps a category name back to its value. An empty name is unknown.
func ParseCategory(s string) (FailureCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryUnknown, nil
	}
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown failure category %q (expected one of: %s)", s, strings.Join(Categories(), ", "))
}

// Categorized is implemented by errors that know their failure category.
type Categorized interface {
	FailureCategory() FailureCategory
}

// Classify returns the category carried by err or any error it wraps.
// Unrecognized errors are CategoryUnknown.
func Classify(err error) FailureCategory {
	if err == nil {
		return CategoryUnknown
	}
	var c Categorized
	if errors.As(err, &c) {
		return c.FailureCategory()
	}
	return CategoryUnknown
}

// AssertionError reports a failed test expectation.
type AssertionError struct{ Msg string }

func (e *AssertionError) Error() string                    { return "assertion failed: " + e.Msg }
func (e *AssertionError) FailureCategory() FailureCategory { return CategoryAssertion }

// ApplicationError reports an error raised by the application under test.
type ApplicationError struct{ Msg string }

func (e *ApplicationError) Error() string                    { return "application error: " + e.Msg }
func (e *ApplicationError) FailureCategory() FailureCategory { return CategoryApplication }

// GridNodeUnavailableError reports that no grid node matches the test needs.
type GridNodeUnavailableError struct{ Msg string }

func (e *GridNodeUnavailableError) Error() string { return "no grid node available: " + e.Msg }
func (e *GridNodeUnavailableError) FailureCategory() FailureCategory {
	return CategoryGridNodeUnavailable
}

// CannotRunOnSameNodeError reports that the node used by a previous attempt
// cannot be reused. Another node may work, so it retries.
type CannotRunOnSameNodeError struct{ Msg string }

func (e *CannotRunOnSameNodeError) Error() string {
	return "cannot run on same grid node: " + e.Msg
}
func (e *CannotRunOnSameNodeError) FailureCategory() FailureCategory {
	return CategoryInfrastructure
}
