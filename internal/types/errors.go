package types

import (
	"errors"
	"fmt"
	"syscall"
)

// IOError reports a failed read or write against the control surface.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Errno returns the underlying errno, or 0 when the failure did not carry one.
func (e *IOError) Errno() syscall.Errno {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno
	}
	return 0
}

// MalformedStatsError reports a statistics file missing a required counter or
// carrying a value that is not a non-negative integer.
type MalformedStatsError struct {
	Label  string
	Value  string
	Reason string
}

func (e *MalformedStatsError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("bad statistics file: %s %q: %s", e.Label, e.Value, e.Reason)
	}
	return fmt.Sprintf("bad statistics file: %s: %s", e.Label, e.Reason)
}
