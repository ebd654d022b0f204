package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"mfek/internal/logging"
)

type dirAdder interface {
	Add(name string) error
}

// collectRecursiveDirs lists every directory below root, excluding root.
// Unreadable subtrees are skipped.
func collectRecursiveDirs(root string, logger *logging.Logger) []string {
	dirs := []string{}
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("skipping unreadable path", map[string]string{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}
		if !entry.IsDir() || path == root {
			return nil
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

// addTree registers root and every directory below it. Only the error for
// root itself is returned.
func addTree(adder dirAdder, root string, logger *logging.Logger) error {
	if err := adder.Add(root); err != nil {
		return err
	}
	added := 1
	for _, dir := range collectRecursiveDirs(root, logger) {
		if err := adder.Add(dir); err != nil {
			logger.Debug("watch add failed", map[string]string{
				"path":  dir,
				"error": err.Error(),
			})
			continue
		}
		added++
	}
	logger.Debug("watch added", map[string]string{
		"path":           root,
		"active_watches": strconv.Itoa(added),
	})
	return nil
}

// watchNewDir extends the watch to a directory created after startup.
func watchNewDir(adder dirAdder, path string, logger *logging.Logger) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := addTree(adder, path, logger); err != nil {
		logger.Warn("watch add failed", map[string]string{
			"path":  path,
			"error": err.Error(),
		})
	}
}
