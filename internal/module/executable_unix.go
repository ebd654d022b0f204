//go:build !windows

package module

import "io/fs"

// isExecutable reports whether any of the owner, group or other execute
// bits are set.
func isExecutable(info fs.FileInfo) bool {
	return info.Mode().Perm()&0o111 != 0
}
