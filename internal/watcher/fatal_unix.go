//go:build !windows

package watcher

import (
	"errors"
	"syscall"
)

// isFatalWatchError reports inotify resource exhaustion: the watch limit
// (ENOSPC) or the process and system file descriptor limits.
func isFatalWatchError(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
