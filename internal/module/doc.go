// Package module locates companion MFEK executables and checks that they
// report the version the caller expects.
//
// Discovery is synchronous: filesystem probes and the version query both
// block the calling goroutine, and no deadline is added beyond the caller's
// context. Outcomes are returned as values; nothing here returns an error.
package module
