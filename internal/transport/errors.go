package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is matched by every InvalidStateError.
	ErrInvalidState = errors.New("invalid transport state")
	// ErrMalformed wraps envelope validation failures reported through
	// EventError.
	ErrMalformed = errors.New("malformed envelope")
)

// InvalidStateError is returned when an operation is not allowed in the
// transport's current state, such as Send before the connection is open.
type InvalidStateError struct {
	Op    string
	State ConnState
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: transport is %s", e.Op, e.State)
}

// Is lets errors.Is(err, ErrInvalidState) match.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
