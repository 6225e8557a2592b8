// BYZRA ⸻ cmd/reclaim/root.go
// restore command, shared flags and the directory prompt

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reclaim/internal/config"
	"reclaim/internal/run"
	"reclaim/internal/util"
)

type flags struct {
	configPath  string
	workers     int
	timeout     time.Duration
	retryPolicy string
	verify      bool
	verbose     bool

	noCleanup bool
	failExit  bool
	sniffer   string
	report    string
	dryRun    bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "reclaim [dir]",
		Short: "Restore photo export metadata into media files",
		Long: `reclaim writes the timestamps, GPS position and tagged people from an
exported library's JSON sidecars back into each photo and video.

Sidecars are deleted only when every file in the run was written
successfully and the run was not interrupted.`,
		Example: `  # Prompt for the library folder
  reclaim

  # Restore a library with 8 workers, keeping the sidecars
  reclaim ~/Takeout/Photos --workers 8 --no-cleanup

  # See which files have no sidecar, touching nothing
  reclaim ~/Takeout/Photos --dry-run --report run.yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, source, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			var dir string
			if len(args) == 1 {
				dir = args[0]
			} else {
				dir, err = promptDir(cmd.InOrStdin(), out)
				if err != nil {
					return err
				}
			}

			if err := util.ValidateDir(dir); err != nil {
				fmt.Fprintln(out, util.Fail("Invalid directory. Please enter a valid path."))
				return err
			}

			if interactive(out) {
				printHeader(out)
			}
			if source != "" {
				fmt.Fprintln(out, util.Info("Config: "+source))
			}

			return restore(cmd.Context(), out, cfg, dir, f)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "config file (default: search ./reclaim.toml, config/, ~/.reclaim/config/)")
	pf.IntVarP(&f.workers, "workers", "w", 0, "worker pool size (default: min(32, CPUs))")
	pf.DurationVar(&f.timeout, "timeout", 0, "per-tool timeout, 0 disables (default 10m)")
	pf.StringVar(&f.retryPolicy, "retry-policy", "", `result of a retry after repair: "accept" or "classify"`)
	pf.BoolVar(&f.verify, "verify", false, "read written metadata back and compare")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	lf := cmd.Flags()
	lf.BoolVar(&f.noCleanup, "no-cleanup", false, "keep sidecars even after a clean run")
	lf.BoolVar(&f.failExit, "fail-exit", false, "exit non-zero when any file failed")
	lf.StringVar(&f.sniffer, "sniffer", "", `content sniffer for extension fixes: "file" or "mime"`)
	lf.StringVar(&f.report, "report", "", "write a YAML run report to this path")
	lf.BoolVarP(&f.dryRun, "dry-run", "n", false, "resolve sidecars only, change nothing")

	cmd.AddCommand(newWatchCmd(f), newConfigCmd())

	return cmd
}

// config file, then environment, then explicitly set flags
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, string, error) {
	cfg, source, err := config.Load(f.configPath)
	if err != nil {
		return nil, source, err
	}

	changed := cmd.Flags().Changed
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("timeout") {
		cfg.Timeout = config.Duration{Duration: f.timeout}
	}
	if changed("retry-policy") {
		cfg.RetryPolicy = config.RetryPolicy(f.retryPolicy)
	}
	if changed("verify") {
		cfg.Verify = f.verify
	}
	if changed("verbose") && f.verbose {
		cfg.LogLevel = "debug"
	}
	if changed("no-cleanup") {
		cfg.Cleanup = !f.noCleanup
	}
	if changed("fail-exit") {
		cfg.FailExit = f.failExit
	}
	if changed("sniffer") {
		cfg.Sniffer = f.sniffer
	}
	if changed("report") {
		cfg.Report = f.report
	}

	return cfg, source, cfg.Validate()
}

func restore(ctx context.Context, out io.Writer, cfg *config.Config, dir string, f *flags) error {
	a, err := build(cfg, out)
	if err != nil {
		return err
	}
	defer a.Close()

	coordinator := run.New(a.proc, run.Options{
		Root:                   dir,
		Workers:                cfg.PoolSize(),
		Cleanup:                cfg.Cleanup,
		DryRun:                 f.dryRun,
		CountTranscodeFailures: cfg.CountTranscodeFailures,
		Interactive:            interactive(out),
		ReportPath:             cfg.Report,
		Sniffer:                a.sniffer,
		Out:                    out,
		Log:                    a.log,
	})

	report, err := coordinator.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.FailExit && report.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", report.Failed, report.Discovered)
	}
	return nil
}

func promptDir(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, util.LBL.Render("Enter the path to the folder for recursive processing: "))

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func interactive(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func printHeader(out io.Writer) {
	fmt.Fprintf(out, "\n%s %s\n%s\n",
		util.LBL.Render("reclaim"),
		util.SUB.Render("v"+version+" → photo export metadata restore"),
		util.Divider())
}
