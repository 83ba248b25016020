package oerror

import "fmt"

// Error is a formatted error raised when an internal invariant of the simulation is broken.
type Error struct {
	Err string
}

// New formats a new Error.
func New(format string, args ...any) *Error {
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err
}
