package quest

import (
	"errors"
	"fmt"
)

// ErrInvalidLifecycle is returned when an operation is called in a state it
// does not allow, such as reading the stage of a quest that is not running.
// It means a caller bug, never bad player data.
var ErrInvalidLifecycle = errors.New("invalid quest lifecycle")

// ErrCorruptValue is wrapped by codec errors for unparseable stored values.
var ErrCorruptValue = errors.New("corrupt quest value")

// LifecycleError describes which operation was attempted in which state.
type LifecycleError struct {
	Kind  string
	Op    string
	State State
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Kind, e.Op, e.State)
}

func (e *LifecycleError) Unwrap() error {
	return ErrInvalidLifecycle
}
