package module

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// VersionFlag is passed to every companion binary to query its version.
const VersionFlag = "--version"

var (
	errNoVersion         = errors.New("no version information")
	errUnreadableVersion = errors.New("no readable version information")
)

// Negotiate runs path with VersionFlag and compares the last
// whitespace-delimited token of its stdout to expected, byte for byte.
// The call blocks until the binary exits.
func Negotiate(ctx context.Context, path, module, expected string, opts Options) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger()
	outcome := Outcome{Module: module, Status: OutOfDate, Path: path}

	var detail string
	observed, err := queryVersion(ctx, path)
	switch {
	case errors.Is(err, errNoVersion):
		detail = errNoVersion.Error()
		logger.Debug("version query failed", map[string]string{"path": path, "error": err.Error()})
	case errors.Is(err, errUnreadableVersion):
		detail = errUnreadableVersion.Error()
	case observed == expected:
		outcome.Status = UpToDate
		outcome.Version = expected
		detail = "OK"
	default:
		outcome.Version = observed
		detail = "unexpected version " + observed
	}

	name := Prefix + module
	logger.Info("module found", map[string]string{
		"module": name,
		"path":   path,
		"detail": detail,
	})
	if outcome.Status == OutOfDate {
		logger.Warn("module version mismatch", map[string]string{
			"module":   name,
			"expected": expected,
			"detail":   detail,
			"hint": fmt.Sprintf("Your experience may be degraded. Please either update %[1]s or this program "+
				"so that the version of %[1]s it expects matches. (Expected %[1]s %[2]s.)", name, expected),
		})
	}
	return outcome
}

func queryVersion(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, path, VersionFlag)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		// A non-zero exit still leaves usable stdout behind.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", errNoVersion, err)
		}
	}

	output := stdout.Bytes()
	if !utf8.Valid(output) {
		return "", errUnreadableVersion
	}
	fields := strings.Fields(string(output))
	if len(fields) == 0 {
		return "", errUnreadableVersion
	}
	return fields[len(fields)-1], nil
}
