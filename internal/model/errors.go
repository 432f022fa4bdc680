package model

import (
	"errors"
	"fmt"
)

// ErrInvalidShape matches every ValidationError via errors.Is.
var ErrInvalidShape = errors.New("invalid snapshot shape")

// ValidationError reports a payload that does not match the snapshot shape.
type ValidationError struct {
	Field  string // Dotted path, e.g. "opportunities[2].symbol"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidShape, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidShape, e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidShape.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidShape
}

// prefix returns a copy of err with path prepended to its field.
func prefix(path string, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	field := path
	if ve.Field != "" {
		field = path + "." + ve.Field
	}
	return &ValidationError{Field: field, Reason: ve.Reason}
}
