package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("not_found")
	ErrConflict                = errors.New("conflict")
	ErrInvalidStatusTransition = fmt.Errorf("%w: invalid_status_transition", ErrConflict)
)

// FieldErrors maps a request field to every message collected for it.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		for _, m := range msgs {
			f.Add(field, m)
		}
	}
}

// Err returns nil when nothing was collected.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+strings.Join(e.Fields[k], ", "))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Fields extracts the field map from a validation error, or nil.
func Fields(err error) FieldErrors {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
