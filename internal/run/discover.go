// BYZRA ⸻ internal/run/discover.go
// library walk, leftover purge and extension correction

package run

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"reclaim/internal/logging"
	"reclaim/internal/media"
	"reclaim/internal/process"
	"reclaim/internal/sniff"
	"reclaim/internal/util"
)

type Rename struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Applied bool   `yaml:"applied"`
	Error   string `yaml:"error,omitempty"`
}

// deletes leftover exiftool working copies under root
func PurgeTemp(root string, out process.Console, log *logging.Logger) int {
	n, err := util.RemoveBySuffix(root, util.ExiftoolTempSuffix,
		func(path string) {
			out.Write(util.Info("Deleted temp file: " + path))
		},
		func(path string, err error) {
			out.Write(util.Warn(fmt.Sprintf("Failed to delete temp file %s: %v", path, err)))
			log.Warning(fmt.Sprintf("temp file %s: %v", path, err))
		})
	if err != nil {
		log.Error(err.Error())
	}
	return n
}

// supported media under root, sorted lexicographically
//
// Unreadable subdirectories are logged and skipped; only an unreadable
// root fails the walk.
func Collect(root string, log *logging.Logger) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warning(fmt.Sprintf("skipping %s: %v", path, err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if media.IsCandidate(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// items in submission order, with mislabelled files renamed
//
// A file that cannot be renamed keeps its original path. In dry run the
// renames are only planned.
func Itemize(ctx context.Context, paths []string, s sniff.Sniffer, rules []sniff.Rule, dryRun bool, out process.Console, log *logging.Logger) ([]media.Item, []Rename) {
	items := make([]media.Item, 0, len(paths))
	var renames []Rename

	for seq, path := range paths {
		item, err := media.NewItem(path, seq)
		if err != nil {
			log.Warning(err.Error())
			continue
		}

		if s != nil && ctx.Err() == nil {
			if target, ok := sniff.Correct(ctx, s, rules, path); ok {
				r := Rename{From: path, To: target}
				switch {
				case dryRun:
					out.Write(util.Info(fmt.Sprintf("Would rename %s to %s", path, target)))
				default:
					if err := util.RenameNoClobber(path, target); err != nil {
						r.Error = err.Error()
						out.Write(util.Warn(fmt.Sprintf("Failed to rename %s: %v", path, err)))
						log.Warning(r.Error)
					} else {
						r.Applied = true
						item = item.Renamed(target)
						out.Write(util.Info("Renamed to: " + target))
						log.Info(fmt.Sprintf("renamed %s to %s", path, target))
					}
				}
				renames = append(renames, r)
			}
		}

		items = append(items, item)
	}

	return items, renames
}
