// Package ipcinfo describes what a running MFEK module is working on, so a
// companion it spawns can be pointed at the same font and glyph.
package ipcinfo

import (
	"fmt"
	"os"
	"path/filepath"

	"mfek/internal/fsutil"
	"mfek/internal/logging"
)

// DisconnectedModule is the parent name used when no real module is
// driving the exchange.
const DisconnectedModule = "ipc"

// Info is the context handed from a parent module to its companions.
// Font and Glyph are empty when unknown.
type Info struct {
	ParentModule string `json:"parent_module" yaml:"parent_module"`
	ParentExe    string `json:"parent_exe" yaml:"parent_exe"`
	Font         string `json:"font,omitempty" yaml:"font,omitempty"`
	Glyph        string `json:"glyph,omitempty" yaml:"glyph,omitempty"`
}

// HasFont reports whether the info names a UFO to operate on.
func (i Info) HasFont() bool {
	return i.Font != ""
}

func newInfo(parent, font, glyph string) (Info, error) {
	exe, err := os.Executable()
	if err != nil {
		return Info{}, fmt.Errorf("ipcinfo: resolve executable: %w", err)
	}
	return Info{ParentModule: parent, ParentExe: exe, Font: font, Glyph: glyph}, nil
}

// FromFontDir is the info for a module editing the UFO at path.
func FromFontDir(parent, path string) (Info, error) {
	return newInfo(parent, path, "")
}

// FromFontinfoPath is the info for a module editing a UFO's fontinfo.plist.
// The font is only set when path really is named fontinfo.plist inside a UFO.
func FromFontinfoPath(parent, path string) (Info, error) {
	resolved, err := fsutil.Canonical(path)
	if err != nil {
		return Info{}, fmt.Errorf("ipcinfo: %w", err)
	}
	font := ""
	if filepath.Base(path) == fsutil.FontinfoName {
		if ufo, ok := fsutil.FindUFO(filepath.Dir(resolved)); ok {
			font = ufo
		}
	}
	return newInfo(parent, font, path)
}

// FromGlifPath is the info for a module editing a single .glif file. The
// font is the UFO enclosing the glyph's layer directory, if any.
func FromGlifPath(parent, path string) (Info, error) {
	resolved, err := fsutil.Canonical(path)
	if err != nil {
		return Info{}, fmt.Errorf("ipcinfo: %w", err)
	}
	font, _ := fsutil.FindUFO(filepath.Dir(resolved))
	return newInfo(parent, font, path)
}

// FromPath picks the constructor matching what path points at: a
// fontinfo.plist, a .glif, or otherwise a font directory.
func FromPath(parent, path string) (Info, error) {
	switch {
	case filepath.Base(path) == fsutil.FontinfoName:
		return FromFontinfoPath(parent, path)
	case filepath.Ext(path) == ".glif":
		return FromGlifPath(parent, path)
	default:
		return FromFontDir(parent, path)
	}
}

// Disconnected is an info with no parent module and no font. It is mostly
// useful in tests.
func Disconnected(logger *logging.Logger) Info {
	logger.Named("ipcinfo").Debug("creating disconnected ipc info", nil)
	exe, err := os.Executable()
	if err != nil {
		exe = ""
	}
	return Info{ParentModule: DisconnectedModule, ParentExe: exe}
}
