// Package header prints the MFEK startup banner on stderr.
package header

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mfek/internal/config"
	"mfek/internal/logging"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const logo = `
      ___           ___         ___           ___     
     /\  \         /\__\       /\__\         /|  |    
    |::\  \       /:/ _/_     /:/ _/_       |:|  |    
    |:|:\  \     /:/ /\__\   /:/ /\__\      |:|  |    
  __|:|\:\  \   /:/ /:/  /  /:/ /:/ _/_   __|:|  |    
 /::::|_\:\__\ /:/_/:/  /  /:/_/:/ /\__\ /\ |:|__|____
 \:\~~\  \/__/ \:\/:/  /   \:\/:/ /:/  / \:\/:::::/__/
  \:\  \        \::/__/     \::/_/:/  /   \::/~~/~    
   \:\  \        \:\  \      \:\/:/  /     \:\~~\     
    \:\__\        \:\__\      \::/  /       \:\__\    
     \/__/         \/__/       \/__/         \/__/    `

// Banner writes the header to Out. Nothing is written when Out is not a
// terminal or the settings suppress the header.
type Banner struct {
	Out      io.Writer
	Terminal bool
	Settings config.Settings
	Logger   *logging.Logger
	// Renderer defaults to one detecting Out's color support.
	Renderer *lipgloss.Renderer
}

// Stderr is the banner every module prints at startup.
func Stderr(settings config.Settings, logger *logging.Logger) Banner {
	return Banner{
		Out:      os.Stderr,
		Terminal: term.IsTerminal(int(os.Stderr.Fd())), //nolint:gosec // fd fits in int
		Settings: settings,
		Logger:   logger,
	}
}

// Display prints the banner for module using the environment's settings.
func Display(module string) {
	_ = Stderr(config.FromEnv(), nil).Display(module)
}

// ElaborateDisplay is Display plus a version line, for graphical modules.
func ElaborateDisplay(module, version string, compiled *time.Time) {
	_ = Stderr(config.FromEnv(), nil).ElaborateDisplay(module, version, compiled)
}

func (b Banner) enabled() bool {
	return b.Out != nil && b.Terminal && !b.Settings.SuppressHeader
}

func (b Banner) renderer() *lipgloss.Renderer {
	if b.Renderer != nil {
		return b.Renderer
	}
	return lipgloss.NewRenderer(b.Out)
}

func (b Banner) Display(module string) error {
	if !b.enabled() {
		return nil
	}
	if _, err := io.WriteString(b.Out, Render(module, b.renderer())); err != nil {
		b.Logger.Error("failed to write MFEK header", map[string]string{"error": err.Error()})
		return fmt.Errorf("header: write banner: %w", err)
	}
	return nil
}

func (b Banner) ElaborateDisplay(module, version string, compiled *time.Time) error {
	if !b.enabled() {
		return nil
	}
	if err := b.Display(module); err != nil {
		return err
	}
	line := VersionLine(module, version, b.Settings.Codename, compiled, b.renderer())
	if _, err := io.WriteString(b.Out, line); err != nil {
		return fmt.Errorf("header: write version line: %w", err)
	}
	return nil
}

// Render draws the MFEK logo with module's name set beside its last line,
// followed by a blank line.
func Render(module string, renderer *lipgloss.Renderer) string {
	logoStyle := renderer.NewStyle().Bold(true)
	nameStyle := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	lines := strings.Split(logo, "\n")
	var out strings.Builder
	for i, line := range lines {
		out.WriteString(logoStyle.Render(line))
		if i == len(lines)-1 {
			out.WriteString(nameStyle.Render(" " + module))
		}
		out.WriteString("\n")
	}
	out.WriteString("\n")
	return out.String()
}

// VersionLine is "This is MFEK<module> <version> (“<codename>”), compiled @ <date>."
// with the codename and date parts only present when known.
func VersionLine(module, version, codename string, compiled *time.Time, renderer *lipgloss.Renderer) string {
	var line strings.Builder
	line.WriteString("This is MFEK" + module + " " + version)
	if codename != "" {
		line.WriteString(" (“" + codename + "”)")
	}
	if compiled != nil {
		line.WriteString(", compiled @ " + CompiledDate(compiled.Local(), renderer))
	}
	line.WriteString(".\n")
	return line.String()
}
