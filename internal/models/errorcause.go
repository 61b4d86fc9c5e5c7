package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies why a test step is believed to have failed.
type ErrorType string

// Error types produced by the error cause finder.
const (
	ErrorTypeErrorMessage       ErrorType = "ERROR_MESSAGE"
	ErrorTypeErrorInField       ErrorType = "ERROR_IN_FIELD"
	ErrorTypeApplicationChanged ErrorType = "APPLICATION_CHANGED"
	ErrorTypeSeleniumError      ErrorType = "SELENIUM_ERROR"
	ErrorTypeUnknownPage        ErrorType = "UNKNOWN_PAGE"
)

var errorTypeDescriptions = map[ErrorType]string{
	ErrorTypeErrorMessage:       "Error message displayed",
	ErrorTypeErrorInField:       "Field in error",
	ErrorTypeApplicationChanged: "The application has been modified",
	ErrorTypeSeleniumError:      "Scenario error, the page is not the expected one",
	ErrorTypeUnknownPage:        "This page has never been encountered",
}

// Description returns the human readable prefix of the type.
func (t ErrorType) Description() string {
	if d, ok := errorTypeDescriptions[t]; ok {
		return d
	}
	return string(t)
}

// Valid reports whether t is one of the known error types.
func (t ErrorType) Valid() bool {
	_, ok := errorTypeDescriptions[t]
	return ok
}

// ErrNoErrorType is returned when an ErrorCause is built without a type.
var ErrNoErrorType = errors.New("error type must not be empty")

// ErrorCause is a classified reason a test step is believed to have failed.
type ErrorCause struct {
	Type        ErrorType `json:"type"`
	Description string    `json:"description,omitempty"`
	// Step is the step the cause is attached to; it is not part of equality.
	Step *Step `json:"-"`
	// StepName is kept for serialized forms where Step is not available.
	StepName string `json:"step_name,omitempty"`
}

// NewErrorCause builds a cause attached to step (which may be nil).
func NewErrorCause(t ErrorType, description string, step *Step) (ErrorCause, error) {
	if t == "" {
		return ErrorCause{}, ErrNoErrorType
	}
	c := ErrorCause{Type: t, Description: description, Step: step}
	if step != nil {
		c.StepName = step.Name
	}
	return c, nil
}

// Equal compares causes by type and description.
func (c ErrorCause) Equal(other ErrorCause) bool {
	return c.Type == other.Type && c.Description == other.Description
}

func (c ErrorCause) String() string {
	var b strings.Builder
	b.WriteString(c.Type.Description())
	if c.Description != "" {
		b.WriteString(": ")
		b.WriteString(c.Description)
	}
	stepName := c.StepName
	if c.Step != nil {
		stepName = c.Step.Name
	}
	if stepName != "" {
		fmt.Fprintf(&b, " on step '%s'", stepName)
	}

	// A declared root cause only explains displayed errors and unknown pages.
	if c.Step != nil && (c.Type == ErrorTypeErrorMessage || c.Type == ErrorTypeUnknownPage) &&
		c.Step.RootCause != "" && c.Step.RootCause != RootCauseNone {
		fmt.Fprintf(&b, "\nDeclared root Cause: %s", c.Step.RootCause)
		if c.Step.RootCauseDetails != "" {
			fmt.Fprintf(&b, " => %s", c.Step.RootCauseDetails)
		}
	}
	return b.String()
}

// ContainsCause reports whether causes already holds a cause equal to c.
func ContainsCause(causes []ErrorCause, c ErrorCause) bool {
	for _, existing := range causes {
		if existing.Equal(c) {
			return true
		}
	}
	return false
}
