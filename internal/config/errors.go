package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig matches every *ValidationError.
var ErrInvalidConfig = errors.New("invalid config")

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid config: %s", e.Reason)
	}
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidConfig }
