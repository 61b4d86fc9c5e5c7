package store

import (
	"errors"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing test result or reference snapshot.
type NotFoundError struct {
	Entity string
	ID     string
}

var _ models.RecoverableError = (*NotFoundError)(nil)

func (e *NotFoundError) Error() string     { return e.Entity + " not found: " + e.ID }
func (e *NotFoundError) ErrorCode() string { return models.CodeNotFound }
func (e *NotFoundError) Context() map[string]string {
	return map[string]string{"entity": e.Entity, "id": e.ID}
}
func (e *NotFoundError) SuggestedAction() string {
	switch e.Entity {
	case "test result":
		return "seleniumrobot result list"
	case "reference snapshot":
		return "seleniumrobot reference add --step-result-id " + e.ID + " --path <picture>"
	}
	return ""
}
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
