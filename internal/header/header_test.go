package header

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"mfek/internal/config"
	"mfek/internal/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testRenderer pins the color profile; a bytes.Buffer would otherwise be
// detected as a non-terminal and rendered without colors.
func testRenderer(out io.Writer, profile termenv.Profile) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(out)
	renderer.SetColorProfile(profile)
	return renderer
}

func plainRenderer(out io.Writer) *lipgloss.Renderer {
	return testRenderer(out, termenv.Ascii)
}

func colorRenderer(out io.Writer) *lipgloss.Renderer {
	return testRenderer(out, termenv.ANSI)
}

func TestRenderPlain(t *testing.T) {
	var out bytes.Buffer
	got := Render("metadata", plainRenderer(&out))
	want := logo + " metadata\n\n"
	if got != want {
		t.Fatalf("unexpected banner:\n%s", got)
	}
}

func TestRenderColored(t *testing.T) {
	var out bytes.Buffer
	got := Render("ipc", colorRenderer(&out))
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in colored banner")
	}
	if !strings.Contains(got, "ipc") {
		t.Fatalf("expected module name in banner")
	}
}

func TestBannerWritesOnlyToTerminal(t *testing.T) {
	var out bytes.Buffer
	banner := Banner{Out: &out, Terminal: false, Renderer: plainRenderer(&out)}
	if err := banner.Display("glif"); err != nil {
		t.Fatalf("display: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing written off a terminal, got %q", out.String())
	}

	banner.Terminal = true
	if err := banner.Display("glif"); err != nil {
		t.Fatalf("display: %v", err)
	}
	if !strings.HasSuffix(out.String(), " glif\n\n") {
		t.Fatalf("expected banner, got %q", out.String())
	}
}

func TestBannerSuppressed(t *testing.T) {
	var out bytes.Buffer
	banner := Banner{
		Out:      &out,
		Terminal: true,
		Settings: config.Settings{SuppressHeader: true},
		Renderer: plainRenderer(&out),
	}
	compiled := time.Now()
	if err := banner.ElaborateDisplay("glif", "1.0.0", &compiled); err != nil {
		t.Fatalf("elaborate display: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected suppressed banner, got %q", out.String())
	}
}

func TestBannerSuppressedFromEnv(t *testing.T) {
	t.Setenv(config.EnvSuppressHeader, "1")
	var out bytes.Buffer
	banner := Banner{Out: &out, Terminal: true, Settings: config.FromEnv(), Renderer: plainRenderer(&out)}
	if err := banner.Display("glif"); err != nil {
		t.Fatalf("display: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected suppressed banner, got %q", out.String())
	}
}

func TestElaborateDisplay(t *testing.T) {
	var out bytes.Buffer
	banner := Banner{
		Out:      &out,
		Terminal: true,
		Settings: config.Settings{Codename: "Kanazawa"},
		Renderer: plainRenderer(&out),
	}
	if err := banner.ElaborateDisplay("glif", "1.2.0", nil); err != nil {
		t.Fatalf("elaborate display: %v", err)
	}
	if !strings.HasSuffix(out.String(), "\n\nThis is MFEKglif 1.2.0 (“Kanazawa”).\n") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestVersionLine(t *testing.T) {
	var out bytes.Buffer
	renderer := plainRenderer(&out)
	if got := VersionLine("glif", "1.2.0", "", nil, renderer); got != "This is MFEKglif 1.2.0.\n" {
		t.Fatalf("unexpected line %q", got)
	}
	compiled := time.Date(2021, 9, 5, 14, 3, 9, 0, time.UTC)
	got := VersionLine("glif", "1.2.0", "", &compiled, renderer)
	want := "This is MFEKglif 1.2.0, compiled @ " + FormatJapanese(compiled.Local()) + ".\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatJapanese(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	cases := []struct {
		when time.Time
		want string
	}{
		{
			when: time.Date(2021, 9, 5, 14, 3, 9, 0, tokyo),
			want: "2021年09月05日(日)　14時03分09秒(午後)　協定世界時+0900",
		},
		{
			when: time.Date(2022, 1, 3, 8, 30, 0, 0, time.UTC),
			want: "2022年01月03日(月)　08時30分00秒(午前)　協定世界時+0000",
		},
	}
	for _, tc := range cases {
		if got := FormatJapanese(tc.when); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestCompiledDateColorsWideCharacters(t *testing.T) {
	var out bytes.Buffer
	when := time.Date(2021, 9, 5, 14, 3, 9, 0, time.UTC)

	if got := CompiledDate(when, plainRenderer(&out)); got != FormatJapanese(when) {
		t.Fatalf("expected plain date, got %q", got)
	}
	colored := CompiledDate(when, colorRenderer(&out))
	if !strings.Contains(colored, "\x1b[") || !strings.Contains(colored, "2021") {
		t.Fatalf("expected colored date, got %q", colored)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestDisplayWriteFailureIsLogged(t *testing.T) {
	buffer := logging.NewLogBuffer(8)
	banner := Banner{
		Out:      failingWriter{},
		Terminal: true,
		Logger:   logging.NewLoggerWithOutput(buffer, logging.LevelInfo, io.Discard),
		Renderer: plainRenderer(io.Discard),
	}
	if err := banner.Display("glif"); err == nil {
		t.Fatalf("expected write error")
	}
	if len(buffer.Find(logging.LevelError, "failed to write MFEK header")) != 1 {
		t.Fatalf("expected write failure to be logged")
	}
}
