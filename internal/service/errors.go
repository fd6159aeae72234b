package service

import (
	"errors"
	"fmt"
	"strings"

	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
)

var ErrLogNotFound = errors.New("log not found")

type FieldViolation struct {
	Field  string `json:"field"`
	Value  any    `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// ValidationError reports every rule the input broke, not only the first one.
type ValidationError struct {
	Message    string
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	reasons := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		reasons = append(reasons, v.Field+": "+v.Reason)
	}
	return e.Message + ": " + strings.Join(reasons, "; ")
}

type violations []FieldViolation

func (v *violations) add(field string, value any, reason string) {
	*v = append(*v, FieldViolation{Field: field, Value: value, Reason: reason})
}

// err returns nil when nothing was collected.
func (v violations) err(message string) error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Message: message, Violations: v}
}

// StoreError is a persistence failure with its diagnostic category.
type StoreError struct {
	Operation string
	Category  errorsUtils.StoreCategory
	Err       error
}

func newStoreError(operation string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Category:  errorsUtils.ClassifyStoreError(err),
		Err:       err,
	}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Operation, e.Category, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func notFound(id int64) error {
	return fmt.Errorf("%w: id %d", ErrLogNotFound, id)
}
