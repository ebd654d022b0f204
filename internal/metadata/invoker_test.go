package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"mfek/internal/module"
)

func writeCompanion(t *testing.T, dir, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake companions are POSIX shell scripts")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write companion: %v", err)
	}
	return path
}

func TestCommandInvokerPassesArgs(t *testing.T) {
	path := writeCompanion(t, t.TempDir(), "MFEKmetadata", `printf '%s\n' "$@"`+"\n")

	output, err := CommandInvoker{Path: path}.Invoke(context.Background(), []string{"/f.ufo", "arbitrary", "-k", "ascender"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if string(output) != "/f.ufo\narbitrary\n-k\nascender\n" {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestCommandInvokerKeepsOutputOnFailure(t *testing.T) {
	path := writeCompanion(t, t.TempDir(), "MFEKmetadata", "echo ascender,650\nexit 1\n")

	output, err := CommandInvoker{Path: path}.Invoke(context.Background(), nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if string(output) != "ascender,650\n" {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestCommandInvokerSpawnFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "MFEKmetadata")
	if _, err := (CommandInvoker{Path: missing}).Invoke(context.Background(), nil); !errors.Is(err, ErrSpawn) {
		t.Fatalf("expected ErrSpawn, got %v", err)
	}
	if _, err := (CommandInvoker{}).Invoke(context.Background(), nil); !errors.Is(err, ErrSpawn) {
		t.Fatalf("expected ErrSpawn for empty path, got %v", err)
	}
}

func TestLocateAndQuery(t *testing.T) {
	dir := t.TempDir()
	writeCompanion(t, dir, "mfek-metadata", `if [ "$1" = "--version" ]; then
  echo "MFEKmetadata 0.2.0"
  exit 0
fi
echo "ascender,800"
echo "descender,-200"
`)

	invoker, outcome, ok := Locate(context.Background(), "0.2.0", module.Options{Dirs: []string{dir}})
	if !ok {
		t.Fatalf("expected companion to be found, got %+v", outcome)
	}
	if outcome.Status != module.UpToDate {
		t.Fatalf("expected up to date, got %v", outcome.Status)
	}

	ascender, descender, err := NewClient(invoker).AscenderDescender(context.Background(), "/fonts/Sans.ufo")
	if err != nil {
		t.Fatalf("ascender descender: %v", err)
	}
	if ascender != 800 || descender != -200 {
		t.Fatalf("expected 800/-200, got %v/%v", ascender, descender)
	}
}

func TestLocateMissing(t *testing.T) {
	if _, outcome, ok := Locate(context.Background(), "0.2.0", module.Options{Dirs: []string{}}); ok || outcome.Status != module.NotFound {
		t.Fatalf("expected not found, got %+v", outcome)
	}
}
