package logging

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const DefaultBufferSize = 1000

// levelOrder lists levels from least to most severe.
var levelOrder = []Level{LevelDebug, LevelInfo, LevelWarning, LevelError}

type Logger struct {
	buffer   *LogBuffer
	sink     *lineWriter
	minLevel Level
	fields   map[string]string
}

// lineWriter serializes whole lines onto a shared writer; derived loggers
// share one so concurrent watcher and discovery output never interleaves.
type lineWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *lineWriter) writeLine(ts time.Time, line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s %s\n", ts.Format(time.RFC3339), line)
}

// NewLogger writes to stderr; stdout belongs to the embedding tool.
func NewLogger(buffer *LogBuffer, minLevel Level) *Logger {
	return NewLoggerWithOutput(buffer, minLevel, os.Stderr)
}

func NewLoggerWithOutput(buffer *LogBuffer, minLevel Level, output io.Writer) *Logger {
	if buffer == nil {
		buffer = NewLogBuffer(DefaultBufferSize)
	}
	logger := &Logger{
		buffer:   buffer,
		minLevel: normalizeLevel(minLevel),
	}
	if output != nil && output != io.Discard {
		logger.sink = &lineWriter{out: output}
	}
	return logger
}

// Discard returns a logger that only records into a small buffer. Packages
// fall back to it when the caller supplies no logger.
func Discard() *Logger {
	return NewLoggerWithOutput(NewLogBuffer(64), LevelInfo, nil)
}

func (l *Logger) Buffer() *LogBuffer {
	if l == nil {
		return nil
	}
	return l.buffer
}

func (l *Logger) With(fields map[string]string) *Logger {
	if l == nil {
		return nil
	}
	derived := *l
	derived.fields = mergeFields(l.fields, fields)
	return &derived
}

// Named tags every entry with the given category.
func (l *Logger) Named(category string) *Logger {
	return l.With(map[string]string{Category: category})
}

func (l *Logger) Debug(message string, fields map[string]string) {
	l.log(LevelDebug, message, fields)
}

func (l *Logger) Info(message string, fields map[string]string) {
	l.log(LevelInfo, message, fields)
}

func (l *Logger) Warn(message string, fields map[string]string) {
	l.log(LevelWarning, message, fields)
}

func (l *Logger) Error(message string, fields map[string]string) {
	l.log(LevelError, message, fields)
}

func (l *Logger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	return severity(level) >= severity(l.minLevel)
}

func (l *Logger) log(level Level, message string, fields map[string]string) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Context:   mergeFields(l.fields, fields),
	}
	l.buffer.Add(entry)
	if l.sink != nil {
		l.sink.writeLine(entry.Timestamp, formatEntry(entry))
	}
	emitOTel(entry)
}

// normalizeLevel maps unknown levels to info.
func normalizeLevel(level Level) Level {
	if slices.Contains(levelOrder, level) {
		return level
	}
	return LevelInfo
}

func severity(level Level) int {
	return slices.Index(levelOrder, normalizeLevel(level))
}

// ParseLevel accepts the level names MFEK_LOG understands, plus the
// common aliases "trace" and "warn".
func ParseLevel(value string) (Level, bool) {
	switch name := strings.ToLower(strings.TrimSpace(value)); name {
	case "trace":
		return LevelDebug, true
	case "warn":
		return LevelWarning, true
	default:
		if level := Level(name); slices.Contains(levelOrder, level) {
			return level, true
		}
		return "", false
	}
}

func mergeFields(base, extra map[string]string) map[string]string {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	merged := make(map[string]string, len(base)+len(extra))
	maps.Copy(merged, base)
	maps.Copy(merged, extra)
	return merged
}

func formatEntry(entry LogEntry) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "level=%s msg=%s", entry.Level, strconv.Quote(entry.Message))
	for _, key := range slices.Sorted(maps.Keys(entry.Context)) {
		fmt.Fprintf(&builder, " %s=%s", key, strconv.Quote(entry.Context[key]))
	}
	return builder.String()
}
