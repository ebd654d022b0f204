// Package watcher bridges native filesystem events to a single stream of
// "this path was written" notifications.
//
// A Bridge watches a directory tree recursively and forwards the path of
// every create or write event on a caller-supplied channel, in the order
// fsnotify delivers them. Writes are never merged, but two native pairs
// count as one change: the Create that lands a rename (not forwarded at
// all) and the Write of a new file's first content (forwarded once, with
// its Create). Removes, renames and permission changes are logged and
// dropped. Failures
// are logged, never returned to the caller that launched the bridge; the
// caller observes them as the channel going silent, or through the Bridge
// handle when it used Start.
package watcher
