package cli

import (
	"flag"
	"fmt"
	"io"

	"mfek/internal/version"
)

const (
	defaultHelpDesc    = "Show help"
	defaultVersionDesc = "Print version and exit"
)

type HelpVersionFlags struct {
	Help    bool
	Version bool
}

func AddHelpVersionFlags(fs *flag.FlagSet, helpDesc, versionDesc string) *HelpVersionFlags {
	if fs == nil {
		return &HelpVersionFlags{}
	}
	if helpDesc == "" {
		helpDesc = defaultHelpDesc
	}
	if versionDesc == "" {
		versionDesc = defaultVersionDesc
	}
	flags := &HelpVersionFlags{}
	fs.BoolVar(&flags.Help, "help", false, helpDesc)
	fs.BoolVar(&flags.Help, "h", false, helpDesc)
	fs.BoolVar(&flags.Version, "version", false, versionDesc)
	fs.BoolVar(&flags.Version, "V", false, versionDesc)
	return flags
}

// PrintVersion answers a version query the way every MFEK companion binary
// must: the last whitespace-delimited token on stdout is the version.
func PrintVersion(out io.Writer, name string) {
	fmt.Fprintf(out, "%s version %s\n", name, version.Version)
}
