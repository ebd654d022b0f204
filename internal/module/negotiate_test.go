package module

import (
	"context"
	"encoding/json"
	"testing"

	"mfek/internal/logging"
)

func TestNegotiateTrailingToken(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	path := writeFakeModule(t, dir, "MFEKglif", "MFEKglif 1.0.0 (Rosalind)  \n  0.9.9\n", 0o755)

	outcome := Negotiate(context.Background(), path, "glif", "0.9.9", Options{})

	if !outcome.Matches() {
		t.Fatalf("expected last token to match, got %+v", outcome)
	}
}

func TestNegotiateIsExactMatch(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	path := writeFakeModule(t, dir, "MFEKglif", "MFEKglif v1.0.0", 0o755)

	outcome := Negotiate(context.Background(), path, "glif", "1.0.0", Options{})

	if outcome.Status != OutOfDate || outcome.Version != "v1.0.0" {
		t.Fatalf("expected exact comparison to fail, got %+v", outcome)
	}
}

func TestNegotiateEmptyOutput(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	path := writeFakeModule(t, dir, "MFEKglif", "", 0o755)
	logger, buffer := testLogger()

	outcome := Negotiate(context.Background(), path, "glif", "1.0.0", Options{Logger: logger})

	if _, ok := outcome.Reported(); ok || outcome.Status != OutOfDate {
		t.Fatalf("expected out of date without version, got %+v", outcome)
	}
	found := buffer.Find(logging.LevelInfo, "module found")
	if len(found) != 1 || found[0].Context["detail"] != "no readable version information" {
		t.Fatalf("unexpected detail %+v", found)
	}
}

func TestNegotiateInvalidUTF8(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	path := writeFakeModule(t, dir, "MFEKglif", `\377\376 1.0.0`, 0o755)
	logger, buffer := testLogger()

	outcome := Negotiate(context.Background(), path, "glif", "1.0.0", Options{Logger: logger})

	if _, ok := outcome.Reported(); ok || outcome.Status != OutOfDate {
		t.Fatalf("expected out of date without version, got %+v", outcome)
	}
	warnings := buffer.Find(logging.LevelWarning, "module version mismatch")
	if len(warnings) != 1 || warnings[0].Context["detail"] != "no readable version information" {
		t.Fatalf("unexpected warnings %+v", warnings)
	}
}

func TestNegotiateSpawnFailure(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	path := writeFakeModule(t, dir, "MFEKglif", "", 0o755)
	// Overwrite the script with something the kernel cannot execute.
	writeRaw(t, path, "not a program")
	logger, buffer := testLogger()

	outcome := Negotiate(context.Background(), path, "glif", "1.0.0", Options{Logger: logger})

	if outcome.Status != OutOfDate || outcome.Version != "" {
		t.Fatalf("expected out of date without version, got %+v", outcome)
	}
	found := buffer.Find(logging.LevelInfo, "module found")
	if len(found) != 1 || found[0].Context["detail"] != "no version information" {
		t.Fatalf("unexpected detail %+v", found)
	}
}

func TestNegotiateNonZeroExitKeepsOutput(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	path := writeFakeModule(t, dir, "MFEKglif", "", 0o755)
	writeRaw(t, path, "#!/bin/sh\necho 'MFEKglif 2.1.0'\nexit 3\n")

	outcome := Negotiate(context.Background(), path, "glif", "2.1.0", Options{})

	if !outcome.Matches() {
		t.Fatalf("expected version from failing binary to be read, got %+v", outcome)
	}
}

func TestOutcomeJSON(t *testing.T) {
	payload, err := json.Marshal(Outcome{Module: "metadata", Status: OutOfDate, Version: "0.1.0", Path: "/bin/MFEKmetadata"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"module":"metadata","status":"out_of_date","version":"0.1.0","path":"/bin/MFEKmetadata"}`
	if string(payload) != want {
		t.Fatalf("expected %s, got %s", want, payload)
	}

	var decoded Outcome
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Status != OutOfDate {
		t.Fatalf("expected status to round trip, got %v", decoded.Status)
	}
	if err := decoded.Status.UnmarshalText([]byte("sideways")); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}
