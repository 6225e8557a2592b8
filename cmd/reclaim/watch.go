// BYZRA ⸻ cmd/reclaim/watch.go
// watch command: restore files as they land in a directory

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reclaim/internal/media"
	"reclaim/internal/process"
	"reclaim/internal/progress"
	"reclaim/internal/sniff"
	"reclaim/internal/util"
	"reclaim/internal/watch"
)

func newWatchCmd(f *flags) *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Restore metadata for new files as they arrive",
		Long: `watch monitors a directory tree and restores each new photo or video
once it has stopped changing. Sidecars are never deleted in watch mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, source, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if source != "" {
				fmt.Fprintln(out, util.Info("Config: "+source))
			}

			a, err := build(cfg, out)
			if err != nil {
				return err
			}
			defer a.Close()

			console := progress.NewPlain(out)
			handler := restoreHandler(a.proc, a.sniffer, console)

			w, err := watch.New(args[0], watch.Options{
				MinFileAge:  cfg.Watch.MinFileAge.Duration,
				Dedupe:      cfg.Watch.Dedupe.Duration,
				ExcludeDirs: exclude,
				Workers:     cfg.PoolSize(),
			}, handler, a.log)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, util.Info("Watching "+args[0]+" (Ctrl + C to stop)"))
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "directory substrings to ignore")
	return cmd
}

// one file through extension correction and the processor
func restoreHandler(proc *process.Processor, sniffer sniff.Sniffer, console *progress.Sink) watch.Handler {
	return func(ctx context.Context, path string) (string, error) {
		if fixed, ok := sniff.Correct(ctx, sniffer, sniff.DefaultRules, path); ok {
			if err := util.RenameNoClobber(path, fixed); err != nil {
				console.Write(util.Warn(fmt.Sprintf("Error renaming %s: %v", path, err)))
			} else {
				console.Write(util.Info(fmt.Sprintf("Renamed %s -> %s", path, fixed)))
				path = fixed
			}
		}

		item, err := media.NewItem(path, 0)
		if err != nil {
			return "", err
		}

		o := proc.Process(ctx, item, console)
		switch {
		case o.Kind == process.Abandoned:
			return "", context.Cause(ctx)
		case !o.Succeeded():
			return o.Item.Path, errors.New(o.Reason)
		}
		return o.Item.Path, nil
	}
}
