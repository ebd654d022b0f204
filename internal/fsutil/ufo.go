package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FontinfoName is the UFO file holding font-wide metadata.
const FontinfoName = "fontinfo.plist"

// IsUFO reports whether the final element of path names a UFO source,
// matching .ufo and .ufo3 in any case.
func IsUFO(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, ".ufo") || strings.HasSuffix(base, ".ufo3")
}

// IsGlyphsDir reports whether path names a glyph layer directory such as
// "glyphs" or "glyphs.background".
func IsGlyphsDir(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "glyphs")
}

// FindUFO returns the UFO directory that contains path: path itself when it
// is a UFO, its parent when that is, or the UFO above an enclosing glyph
// layer directory.
func FindUFO(path string) (string, bool) {
	path = filepath.Clean(path)
	if IsUFO(path) {
		return path, true
	}
	parent := filepath.Dir(path)
	if parent == path {
		return "", false
	}
	switch {
	case IsUFO(parent):
		return parent, true
	case IsGlyphsDir(parent):
		return FindUFO(parent)
	default:
		return "", false
	}
}

// Canonical resolves path to an absolute path with symlinks evaluated. The
// path must exist.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("canonical path %q: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("canonical path %q: %w", path, err)
	}
	return resolved, nil
}
