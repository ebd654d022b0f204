package watcher

import (
	"errors"
	"io/fs"
	"strings"
	"syscall"
	"testing"
)

func TestClassifySetupError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{
			name:   "permission",
			err:    &fs.PathError{Op: "open", Path: "/fonts", Err: fs.ErrPermission},
			prefix: `no permissions on target "/fonts"`,
		},
		{
			name:   "missing",
			err:    &fs.PathError{Op: "stat", Path: "/fonts", Err: fs.ErrNotExist},
			prefix: "I/O error: stat /fonts",
		},
		{name: "errno", err: syscall.Errno(28), prefix: "I/O error: "},
		{name: "other", err: errors.New("boom"), prefix: "unknown error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySetupError("/fonts", tt.err)
			if !strings.HasPrefix(got.reason, tt.prefix) {
				t.Fatalf("reason = %q, want prefix %q", got.reason, tt.prefix)
			}
			if !errors.Is(got, tt.err) {
				t.Fatalf("expected classified error to wrap %v", tt.err)
			}
			if !strings.Contains(got.Error(), got.reason) {
				t.Fatalf("error %q does not carry reason", got.Error())
			}
		})
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		Starting:   "starting",
		Watching:   "watching",
		Terminated: "terminated",
		State(9):   "unknown",
	} {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
