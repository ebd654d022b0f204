package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mfek/internal/cli"
	"mfek/internal/config"
	"mfek/internal/logging"
	mfekotel "mfek/internal/otel"
	"mfek/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries what every command needs. Tests build one directly to point
// discovery at temporary directories.
type app struct {
	out      io.Writer
	errOut   io.Writer
	settings config.Settings
	logger   *logging.Logger
	// dirs overrides the module search path when non-nil.
	dirs []string
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	cfg, err := parseArgs(args, errOut)
	if err != nil {
		return handleParseError(err, errOut)
	}
	if cfg.ShowVersion {
		cli.PrintVersion(out, programName)
		return exitCodeSuccess
	}

	settings := config.FromEnv()
	if cfg.LogLevel != "" {
		settings.LogLevel = cfg.LogLevel
	}
	logger := logging.NewLoggerWithOutput(logging.NewLogBuffer(256), settings.LogLevel, errOut).
		With(map[string]string{"command": cfg.Command})

	sdkOptions := mfekotel.SDKOptionsFromEnv()
	sdkOptions.ServiceVersion = version.Version
	shutdown, err := mfekotel.SetupSDK(ctx, sdkOptions)
	if err != nil {
		logger.Warn("telemetry export disabled", map[string]string{"error": err.Error()})
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", map[string]string{"error": err.Error()})
		}
	}()

	a := &app{out: out, errOut: errOut, settings: settings, logger: logger}
	return a.dispatch(ctx, cfg)
}

func (a *app) dispatch(ctx context.Context, cfg Config) int {
	switch cfg.Command {
	case commandAvailable:
		return a.available(ctx, cfg)
	case commandCheck:
		return a.check(ctx, cfg)
	case commandWatch:
		return a.watch(ctx, cfg)
	case commandMetadata:
		return a.metadata(ctx, cfg)
	case commandHeader:
		return a.header(cfg)
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n", cfg.Command)
		return exitCodeUsage
	}
}

func handleParseError(err error, errOut io.Writer) int {
	if isHelp(err) {
		return exitCodeSuccess
	}
	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintln(errOut, usage.Message)
		return usage.Code
	}
	return exitCodeUsage
}
