package module

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"mfek/internal/logging"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake modules are POSIX shell scripts")
	}
}

// writeFakeModule installs an executable that answers --version with output.
// output is used as a printf format, so octal escapes produce raw bytes.
func writeFakeModule(t *testing.T, dir, name, output string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\nprintf '" + output + "'\n"
	if err := os.WriteFile(path, []byte(script), perm); err != nil {
		t.Fatalf("write fake module: %v", err)
	}
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("chmod fake module: %v", err)
	}
	return path
}

func testLogger() (*logging.Logger, *logging.LogBuffer) {
	buffer := logging.NewLogBuffer(100)
	return logging.NewLoggerWithOutput(buffer, logging.LevelDebug, io.Discard), buffer
}

func writeRaw(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
