//go:build windows

package module

import "io/fs"

// Windows has no execute bit; existence is enough.
func isExecutable(fs.FileInfo) bool {
	return true
}
