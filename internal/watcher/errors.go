package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

var (
	// ErrConsumerGone means nobody receives notifications any more.
	ErrConsumerGone = errors.New("watcher: notification consumer is gone")
	// ErrWatchClosed means fsnotify stopped delivering events.
	ErrWatchClosed = errors.New("watcher: event delivery closed")
	// ErrWatchFailed wraps an unrecoverable fsnotify error.
	ErrWatchFailed = errors.New("watcher: watch failed")

	errStopped = errors.New("watcher: stopped")
)

type setupError struct {
	reason string
	err    error
}

func (e *setupError) Error() string {
	return "watcher: cannot launch filesystem watch: " + e.reason
}

func (e *setupError) Unwrap() error {
	return e.err
}

// classifySetupError distinguishes permission denial on the root from other
// I/O failures and from errors of unknown shape.
func classifySetupError(root string, err error) *setupError {
	var (
		pathErr *fs.PathError
		errno   syscall.Errno
	)
	switch {
	case errors.Is(err, fs.ErrPermission):
		return &setupError{reason: fmt.Sprintf("no permissions on target %q", root), err: err}
	case errors.As(err, &pathErr), errors.As(err, &errno):
		return &setupError{reason: fmt.Sprintf("I/O error: %v", err), err: err}
	default:
		return &setupError{reason: fmt.Sprintf("unknown error: %v", err), err: err}
	}
}
