package header

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var japaneseWeekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// FormatJapanese renders t in its own location the way the ja-JP locale
// spells out a full timestamp, e.g. 2021年09月05日(日)　14時03分09秒(午後)　協定世界時+0900.
func FormatJapanese(t time.Time) string {
	meridiem := "午前"
	if t.Hour() >= 12 {
		meridiem = "午後"
	}
	return fmt.Sprintf("%04d年%02d月%02d日(%s)　%02d時%02d分%02d秒(%s)　協定世界時%s",
		t.Year(), int(t.Month()), t.Day(), japaneseWeekdays[t.Weekday()],
		t.Hour(), t.Minute(), t.Second(), meridiem, t.Format("-0700"))
}

// CompiledDate is FormatJapanese with every multi-byte character in green.
func CompiledDate(t time.Time, renderer *lipgloss.Renderer) string {
	green := renderer.NewStyle().Foreground(lipgloss.Color("2"))
	var out strings.Builder
	var run strings.Builder
	wide := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if wide {
			out.WriteString(green.Render(run.String()))
		} else {
			out.WriteString(run.String())
		}
		run.Reset()
	}
	for _, r := range FormatJapanese(t) {
		isWide := utf8.RuneLen(r) > 1
		if isWide != wide {
			flush()
			wide = isWide
		}
		run.WriteRune(r)
	}
	flush()
	return out.String()
}
