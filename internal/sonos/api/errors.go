package api

import (
	"errors"
	"fmt"
)

// ErrCancelled resolves every pending command waiter when the connection is
// torn down. Callers observe cancellation, never a stale success.
var ErrCancelled = errors.New("api: command cancelled")

// FailedCommandError is returned when the player explicitly rejected a
// command (a reply with success:false). It is delivered only to that
// command's own waiter.
type FailedCommandError struct {
	ErrorCode string
	Reason    string
}

func (e *FailedCommandError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("api: command failed: %s", e.ErrorCode)
	}
	return fmt.Sprintf("api: command failed: %s (%s)", e.ErrorCode, e.Reason)
}
