// Package metadata queries font metadata through the MFEKmetadata companion
// module. Every call spawns the companion once and parses its stdout.
package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"mfek/internal/module"
)

// ModuleName is the companion this package talks to.
const ModuleName = "metadata"

var (
	ErrSpawn          = errors.New("metadata: companion could not be run")
	ErrDecode         = errors.New("metadata: companion output could not be decoded")
	ErrSchemaMismatch = errors.New("metadata: companion output does not match the request")
	ErrNoFont         = errors.New("metadata: no font to query")
)

// Invoker runs the companion with args and returns its stdout.
type Invoker interface {
	Invoke(ctx context.Context, args []string) ([]byte, error)
}

// CommandInvoker runs the executable at Path.
type CommandInvoker struct {
	Path string
}

// Invoke returns stdout even when the companion exits non-zero; only a
// failure to start or wait for the process is an error.
func (c CommandInvoker) Invoke(ctx context.Context, args []string) ([]byte, error) {
	if strings.TrimSpace(c.Path) == "" {
		return nil, fmt.Errorf("%w: no executable path", ErrSpawn)
	}
	cmd := exec.CommandContext(ctx, c.Path, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSpawn, c.Path, err)
		}
	}
	return stdout.Bytes(), nil
}

// Locate discovers the metadata companion. An out-of-date companion is
// still returned; callers decide whether degraded output is acceptable.
func Locate(ctx context.Context, expected string, opts module.Options) (CommandInvoker, module.Outcome, bool) {
	outcome := module.Available(ctx, ModuleName, expected, opts)
	if !outcome.Found() {
		return CommandInvoker{}, outcome, false
	}
	return CommandInvoker{Path: outcome.Path}, outcome, true
}
