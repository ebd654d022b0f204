package module

import (
	"context"
	"os"
	"path/filepath"

	"mfek/internal/logging"
	mfekotel "mfek/internal/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const notAvailableHint = "MFEK is modular software; it will still run but some features will not be available. " +
	"For the best experience, please install all available MFEK modules into your PATH."

// Options configures discovery. The zero value searches SearchDirs and
// logs nowhere.
type Options struct {
	Logger *logging.Logger
	// Dirs replaces SearchDirs when non-nil. An empty slice searches nothing.
	Dirs           []string
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func (opts Options) logger() *logging.Logger {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return logger.Named("module")
}

// Candidate is one (directory, executable name) pair to probe.
type Candidate struct {
	Dir  string
	Name string
}

func (c Candidate) Path() string {
	return filepath.Join(c.Dir, c.Name)
}

// SearchDirs returns the PATH entries in order followed by the directory
// holding the running executable. Empty PATH entries are skipped.
func SearchDirs() []string {
	var dirs []string
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Candidates lists every probe for module across dirs: each directory is
// tried with every name from Binaries before moving to the next one.
func Candidates(module string, dirs []string) []Candidate {
	names := Binaries(module)
	candidates := make([]Candidate, 0, len(dirs)*len(names))
	for _, dir := range dirs {
		for _, name := range names {
			candidates = append(candidates, Candidate{Dir: dir, Name: name})
		}
	}
	return candidates
}

// Available finds the first executable candidate for module and negotiates
// its version against expected. It returns a NotFound outcome when no
// candidate qualifies.
func Available(ctx context.Context, module, expected string, opts Options) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger()
	ctx, span := mfekotel.Tracer(opts.TracerProvider).Start(ctx, "module.available", trace.WithAttributes(
		attribute.String("mfek.module", module),
		attribute.String("mfek.expected_version", expected),
	))
	defer span.End()

	dirs := opts.Dirs
	if dirs == nil {
		dirs = SearchDirs()
	}

	for _, candidate := range Candidates(module, dirs) {
		path := candidate.Path()
		if !probe(ctx, path, logger) {
			continue
		}
		mfekotel.RecordSpanEvent(ctx, "module.found", attribute.String("mfek.path", path))
		outcome := Negotiate(ctx, path, module, expected, opts)
		span.SetAttributes(
			attribute.String("mfek.status", outcome.Status.String()),
			attribute.String("mfek.path", path),
		)
		if outcome.Matches() {
			mfekotel.SetSpanStatus(ctx, "")
		} else {
			mfekotel.SetSpanStatus(ctx, "module out of date")
		}
		mfekotel.RecordDiscovery(ctx, opts.MeterProvider, module, outcome.Status.String())
		return outcome
	}

	logger.Error("module not available", map[string]string{
		"module": Prefix + module,
		"hint":   notAvailableHint,
	})
	span.SetAttributes(attribute.String("mfek.status", NotFound.String()))
	mfekotel.SetSpanStatus(ctx, "module not available")
	mfekotel.RecordDiscovery(ctx, opts.MeterProvider, module, NotFound.String())
	return Outcome{Module: module, Status: NotFound}
}

// probe reports whether path is a regular file this process may execute.
// Every failure is a miss, not an error.
func probe(ctx context.Context, path string, logger *logging.Logger) bool {
	logger.Debug("checking candidate", map[string]string{"path": path})
	info, err := os.Stat(path)
	if err != nil {
		mfekotel.RecordSpanEvent(ctx, "module.probe.miss", attribute.String("mfek.path", path))
		return false
	}
	if !info.Mode().IsRegular() {
		logger.Debug("candidate is not a regular file", map[string]string{"path": path})
		return false
	}
	if !isExecutable(info) {
		logger.Debug("candidate is not executable", map[string]string{
			"path": path,
			"mode": info.Mode().String(),
		})
		return false
	}
	return true
}
