package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mfek/internal/config"
	"mfek/internal/header"
	"mfek/internal/ipcinfo"
	"mfek/internal/metadata"
	"mfek/internal/module"
	"mfek/internal/version"
	"mfek/internal/watcher"

	"golang.org/x/term"
)

func (a *app) moduleOptions() module.Options {
	return module.Options{Logger: a.logger, Dirs: a.dirs}
}

func outcomeExitCode(outcome module.Outcome) int {
	switch outcome.Status {
	case module.UpToDate:
		return exitCodeSuccess
	case module.OutOfDate:
		return exitCodeOutOfDate
	default:
		return exitCodeNotFound
	}
}

func formatOutcome(outcome module.Outcome) string {
	switch outcome.Status {
	case module.UpToDate:
		return fmt.Sprintf("%s %s up to date (%s)", outcome.Binary(), outcome.Version, outcome.Path)
	case module.OutOfDate:
		reported, ok := outcome.Reported()
		if !ok {
			reported = "unknown version"
		}
		return fmt.Sprintf("%s out of date: %s (%s)", outcome.Binary(), reported, outcome.Path)
	default:
		return fmt.Sprintf("%s not found", outcome.Binary())
	}
}

func (a *app) available(ctx context.Context, cfg Config) int {
	outcome := module.Available(ctx, cfg.Module, cfg.Version, a.moduleOptions())
	if cfg.Format == formatText {
		fmt.Fprintln(a.out, formatOutcome(outcome))
	} else if err := writeStructured(a.out, cfg.Format, outcome); err != nil {
		fmt.Fprintf(a.errOut, "write output: %v\n", err)
		return exitCodeFailure
	}
	return outcomeExitCode(outcome)
}

type checkResult struct {
	Required bool           `json:"required" yaml:"required"`
	Expected string         `json:"expected" yaml:"expected"`
	Outcome  module.Outcome `json:"outcome" yaml:"outcome"`
}

func (a *app) check(ctx context.Context, cfg Config) int {
	manifest, err := config.LoadManifest(cfg.Manifest)
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		if errors.Is(err, config.ErrManifestMissing) || errors.Is(err, config.ErrManifestInvalid) {
			return exitCodeUsage
		}
		return exitCodeFailure
	}

	code := exitCodeSuccess
	results := make([]checkResult, 0, len(manifest.Modules))
	for _, requirement := range manifest.Modules {
		outcome := module.Available(ctx, requirement.Name, requirement.Version, a.moduleOptions())
		results = append(results, checkResult{
			Required: requirement.Required,
			Expected: requirement.Version,
			Outcome:  outcome,
		})
		switch {
		case outcome.Status == module.NotFound && requirement.Required:
			code = exitCodeNotFound
		case outcome.Status == module.OutOfDate && code == exitCodeSuccess:
			code = exitCodeOutOfDate
		}
	}

	if cfg.Format == formatText {
		for _, result := range results {
			line := formatOutcome(result.Outcome)
			if !result.Required {
				line += " [optional]"
			}
			fmt.Fprintln(a.out, line)
		}
	} else if err := writeStructured(a.out, cfg.Format, results); err != nil {
		fmt.Fprintf(a.errOut, "write output: %v\n", err)
		return exitCodeFailure
	}
	return code
}

func (a *app) watch(ctx context.Context, cfg Config) int {
	// The command is the consumer and stops the bridge itself, so the
	// bridge gets no consumer context of its own.
	var expired <-chan time.Time
	if cfg.StopAfter > 0 {
		timer := time.NewTimer(cfg.StopAfter)
		defer timer.Stop()
		expired = timer.C
	}

	paths := make(chan string, 64)
	bridge := watcher.Start(cfg.Root, paths, watcher.Options{Logger: a.logger})
	defer bridge.Stop()

	for {
		select {
		case path := <-paths:
			fmt.Fprintln(a.out, path)
		case <-bridge.Done():
			if err := bridge.Err(); err != nil {
				fmt.Fprintf(a.errOut, "watch %s: %v\n", cfg.Root, err)
				return exitCodeFailure
			}
			a.drain(paths)
			return exitCodeSuccess
		case <-expired:
			return a.stopWatch(bridge, paths)
		case <-ctx.Done():
			return a.stopWatch(bridge, paths)
		}
	}
}

func (a *app) stopWatch(bridge *watcher.Bridge, paths <-chan string) int {
	bridge.Stop()
	<-bridge.Done()
	a.drain(paths)
	return exitCodeSuccess
}

// drain prints notifications already buffered when the watch ended.
func (a *app) drain(paths <-chan string) {
	for {
		select {
		case path := <-paths:
			fmt.Fprintln(a.out, path)
		default:
			return
		}
	}
}

func (a *app) metadata(ctx context.Context, cfg Config) int {
	info, err := ipcinfo.FromPath(programName, cfg.Font)
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		return exitCodeUsage
	}
	if !info.HasFont() {
		fmt.Fprintf(a.errOut, "no UFO font found at %s\n", cfg.Font)
		return exitCodeUsage
	}

	invoker, outcome, ok := metadata.Locate(ctx, cfg.Expect, a.moduleOptions())
	if !ok {
		fmt.Fprintln(a.errOut, formatOutcome(outcome))
		return exitCodeNotFound
	}
	client := metadata.NewClient(invoker, metadata.WithLogger(a.logger))

	if cfg.Guidelines {
		guidelines, err := client.Guidelines(ctx, info.Font)
		if err != nil {
			fmt.Fprintf(a.errOut, "guidelines: %v\n", err)
			return exitCodeFailure
		}
		if cfg.Format == formatText {
			for _, guideline := range guidelines {
				fmt.Fprintf(a.out, "%s x=%g y=%g angle=%g\n", guideline.Name, guideline.X, guideline.Y, guideline.Angle)
			}
			return exitCodeSuccess
		}
		if err := writeStructured(a.out, cfg.Format, guidelines); err != nil {
			fmt.Fprintf(a.errOut, "write output: %v\n", err)
			return exitCodeFailure
		}
		return exitCodeSuccess
	}

	values, err := client.Arbitrary(ctx, info.Font, cfg.Keys...)
	if err != nil {
		fmt.Fprintf(a.errOut, "metadata: %v\n", err)
		return exitCodeFailure
	}
	if cfg.Format == formatText {
		for _, key := range cfg.Keys {
			fmt.Fprintf(a.out, "%s=%s\n", key, values[key])
		}
		return exitCodeSuccess
	}
	if err := writeStructured(a.out, cfg.Format, values); err != nil {
		fmt.Fprintf(a.errOut, "write output: %v\n", err)
		return exitCodeFailure
	}
	return exitCodeSuccess
}

func (a *app) header(cfg Config) int {
	banner := header.Banner{
		Out:      a.errOut,
		Terminal: cfg.Force || isTerminal(a.errOut),
		Settings: a.settings,
		Logger:   a.logger,
	}
	var err error
	if strings.TrimSpace(cfg.Version) == "" {
		err = banner.Display(cfg.Module)
	} else {
		var compiled *time.Time
		if built, ok := version.BuiltAt(); ok {
			compiled = &built
		}
		err = banner.ElaborateDisplay(cfg.Module, cfg.Version, compiled)
	}
	if err != nil {
		return exitCodeFailure
	}
	return exitCodeSuccess
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd())) //nolint:gosec // fd fits in int
}
