package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"mfek/internal/cli"
	"mfek/internal/logging"
)

const programName = "mfek-ipc"

const (
	commandAvailable = "available"
	commandCheck     = "check"
	commandWatch     = "watch"
	commandMetadata  = "metadata"
	commandHeader    = "header"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type Config struct {
	Command     string
	ShowVersion bool
	LogLevel    logging.Level

	Format   string
	Module   string
	Version  string
	Manifest string

	Root      string
	StopAfter time.Duration

	Font       string
	Keys       []string
	Guidelines bool
	Expect     string

	Force bool
}

type usageError struct {
	Code    int
	Message string
}

func (e *usageError) Error() string {
	return e.Message
}

func usageErr(message string) error {
	return &usageError{Code: exitCodeUsage, Message: message}
}

func parseArgs(args []string, errOut io.Writer) (Config, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)
	logLevel := fs.String("log-level", "", "Log level: debug, info, warning, error (env: MFEK_LOG)")
	helpVersion := cli.AddHelpVersionFlags(fs, "Show this help message", "Print version and exit")
	fs.Usage = func() {
		printHelp(fs.Output())
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if helpVersion.Help {
		fs.Usage()
		return Config{}, flag.ErrHelp
	}
	if helpVersion.Version {
		return Config{ShowVersion: true}, nil
	}

	cfg := Config{Format: formatText}
	if strings.TrimSpace(*logLevel) != "" {
		level, ok := logging.ParseLevel(*logLevel)
		if !ok {
			return Config{}, usageErr(fmt.Sprintf("unknown log level %q", *logLevel))
		}
		cfg.LogLevel = level
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return Config{}, usageErr("command is required")
	}
	cfg.Command = fs.Arg(0)
	rest := fs.Args()[1:]

	var err error
	switch cfg.Command {
	case commandAvailable:
		err = parseAvailable(&cfg, rest, errOut)
	case commandCheck:
		err = parseCheck(&cfg, rest, errOut)
	case commandWatch:
		err = parseWatch(&cfg, rest, errOut)
	case commandMetadata:
		err = parseMetadata(&cfg, rest, errOut)
	case commandHeader:
		err = parseHeader(&cfg, rest, errOut)
	default:
		fs.Usage()
		return Config{}, usageErr(fmt.Sprintf("unknown command %q", cfg.Command))
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newCommandFlags(name string, errOut io.Writer, usage string) (*flag.FlagSet, *cli.HelpVersionFlags) {
	fs := flag.NewFlagSet(programName+" "+name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	helpVersion := cli.AddHelpVersionFlags(fs, "Show this help message", "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s %s\n", programName, usage)
		fs.PrintDefaults()
	}
	return fs, helpVersion
}

func parseCommand(fs *flag.FlagSet, helpVersion *cli.HelpVersionFlags, cfg *Config, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if helpVersion.Help {
		fs.Usage()
		return flag.ErrHelp
	}
	if helpVersion.Version {
		cfg.ShowVersion = true
	}
	return nil
}

func addFormatFlag(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Format, "format", formatText, "Output format: text, json, yaml")
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return usageErr(fmt.Sprintf("unknown format %q", format))
	}
}

func parseAvailable(cfg *Config, args []string, errOut io.Writer) error {
	fs, helpVersion := newCommandFlags(commandAvailable, errOut, "available [--format FORMAT] <module> <version>")
	addFormatFlag(fs, cfg)
	if err := parseCommand(fs, helpVersion, cfg, args); err != nil || cfg.ShowVersion {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return usageErr("available takes a module name and an expected version")
	}
	cfg.Module = strings.TrimSpace(fs.Arg(0))
	cfg.Version = strings.TrimSpace(fs.Arg(1))
	if cfg.Module == "" || cfg.Version == "" {
		return usageErr("module and version must not be empty")
	}
	return validateFormat(cfg.Format)
}

func parseCheck(cfg *Config, args []string, errOut io.Writer) error {
	fs, helpVersion := newCommandFlags(commandCheck, errOut, "check [--manifest PATH] [--format FORMAT]")
	addFormatFlag(fs, cfg)
	fs.StringVar(&cfg.Manifest, "manifest", "", "Module manifest (default: ./mfek-modules.toml)")
	if err := parseCommand(fs, helpVersion, cfg, args); err != nil || cfg.ShowVersion {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return usageErr("check takes no arguments")
	}
	return validateFormat(cfg.Format)
}

func parseWatch(cfg *Config, args []string, errOut io.Writer) error {
	fs, helpVersion := newCommandFlags(commandWatch, errOut, "watch [--stop-after DURATION] <dir>")
	fs.DurationVar(&cfg.StopAfter, "stop-after", 0, "Stop watching after this long (default: until interrupted)")
	if err := parseCommand(fs, helpVersion, cfg, args); err != nil || cfg.ShowVersion {
		return err
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		fs.Usage()
		return usageErr("watch takes one directory")
	}
	if cfg.StopAfter < 0 {
		return usageErr("stop-after must not be negative")
	}
	cfg.Root = fs.Arg(0)
	return nil
}

func parseMetadata(cfg *Config, args []string, errOut io.Writer) error {
	fs, helpVersion := newCommandFlags(commandMetadata, errOut, "metadata [--format FORMAT] [--expect VERSION] [--guidelines] <font> [key...]")
	addFormatFlag(fs, cfg)
	fs.BoolVar(&cfg.Guidelines, "guidelines", false, "Print the font's guidelines instead of keys")
	fs.StringVar(&cfg.Expect, "expect", "", "Expected MFEKmetadata version")
	if err := parseCommand(fs, helpVersion, cfg, args); err != nil || cfg.ShowVersion {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return usageErr("metadata needs a font path")
	}
	cfg.Font = fs.Arg(0)
	cfg.Keys = fs.Args()[1:]
	if cfg.Guidelines && len(cfg.Keys) > 0 {
		return usageErr("--guidelines takes no keys")
	}
	if !cfg.Guidelines && len(cfg.Keys) == 0 {
		fs.Usage()
		return usageErr("metadata needs at least one key")
	}
	return validateFormat(cfg.Format)
}

func parseHeader(cfg *Config, args []string, errOut io.Writer) error {
	fs, helpVersion := newCommandFlags(commandHeader, errOut, "header [--force] [--module-version VERSION] <module>")
	fs.BoolVar(&cfg.Force, "force", false, "Print even when stderr is not a terminal")
	fs.StringVar(&cfg.Version, "module-version", "", "Also print a version line for this version")
	if err := parseCommand(fs, helpVersion, cfg, args); err != nil || cfg.ShowVersion {
		return err
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		fs.Usage()
		return usageErr("header takes one module name")
	}
	cfg.Module = strings.TrimSpace(fs.Arg(0))
	return nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: mfek-ipc [options] <command> [command options]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Find MFEK companion modules, check their versions and watch font sources")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options:")
	writeOption(out, "--log-level LEVEL", "debug, info, warning or error (env: MFEK_LOG, default: info)")
	writeOption(out, "--help", "Show this help message")
	writeOption(out, "--version", "Print version and exit")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	writeOption(out, "available", "Check one module: available <module> <version>")
	writeOption(out, "check", "Check every module in a manifest")
	writeOption(out, "watch", "Print paths written under a directory")
	writeOption(out, "metadata", "Query font metadata through MFEKmetadata")
	writeOption(out, "header", "Print the MFEK banner")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Exit codes:")
	fmt.Fprintln(out, "  0  Success, module up to date")
	fmt.Fprintln(out, "  1  Usage error")
	fmt.Fprintln(out, "  2  Module out of date")
	fmt.Fprintln(out, "  3  Module not found")
	fmt.Fprintln(out, "  4  Other failure")
}

func writeOption(out io.Writer, name, desc string) {
	fmt.Fprintf(out, "  %-18s %s\n", name, desc)
}

func isHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
