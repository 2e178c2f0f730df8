package coordinator

import (
	"errors"
	"fmt"
)

// ErrConflict means the entity already has an in-flight mutation. Callers
// retry after the pending one settles; nothing is queued.
var ErrConflict = errors.New("mutation already in flight")

// ValidationError rejects bad input before any state change happens.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func validationError(format string, args ...interface{}) ValidationError {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}
