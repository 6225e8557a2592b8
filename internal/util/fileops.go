// BYZRA ⸻ internal/util/fileops.go
// file operation utilities

package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// suffix exiftool gives its working copy while rewriting a file
const ExiftoolTempSuffix = "_exiftool_tmp"

var ErrExists = errors.New("destination already exists")

// checks that path is an existing directory
func ValidateDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no directory given")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	return nil
}

// removes every file under root whose name ends with suffix
// per-file errors are reported through onErr and do not stop the walk
func RemoveBySuffix(root, suffix string, onRemove func(path string), onErr func(path string, err error)) (int, error) {
	removed := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if onErr != nil {
				onErr(path, err)
			}
			return nil // keep walking
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}

		if err := os.Remove(path); err != nil {
			if onErr != nil {
				onErr(path, err)
			}
			return nil
		}

		removed++
		if onRemove != nil {
			onRemove(path)
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return removed, nil
}

// renames without ever replacing an existing file
func RenameNoClobber(oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}

	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("failed to rename %s: %w", oldPath, ErrExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat rename target: %w", err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to rename %s: %w", oldPath, err)
	}

	return nil
}

// swaps ext for newExt, keeping the rest of the path
func ReplaceExt(path, newExt string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + newExt
}
