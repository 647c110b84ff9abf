package services

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("all fields are required")

// ValidationError lists the request fields that are missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
