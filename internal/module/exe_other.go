//go:build !windows

package module

const exeSuffix = ""
