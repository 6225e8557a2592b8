// BYZRA ⸻ internal/run/coordinator.go
// one restore run: discover, dispatch to a bounded pool, drain, report, clean up

package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"reclaim/internal/logging"
	"reclaim/internal/media"
	"reclaim/internal/process"
	"reclaim/internal/progress"
	"reclaim/internal/sniff"
	"reclaim/internal/util"
)

type State int

const (
	Idle State = iota
	Discovering
	Dispatching
	Draining
	Reporting
	Aborted
)

func (s State) String() string {
	return [...]string{"idle", "discovering", "dispatching", "draining", "reporting", "aborted"}[s]
}

// what the pool runs for each item
type Processor interface {
	Process(ctx context.Context, item media.Item, out process.Console) process.Outcome
	Preview(item media.Item) process.Outcome
}

type Sink interface {
	process.Console
	Advance(n int)
	Close()
}

type Options struct {
	Root                   string
	Workers                int
	Cleanup                bool
	DryRun                 bool
	CountTranscodeFailures bool
	Interactive            bool // spinner and progress bar
	ReportPath             string

	Sniffer sniff.Sniffer // nil skips extension correction
	Rules   []sniff.Rule

	Out     io.Writer
	NewSink func(total int) Sink
	Log     *logging.Logger
	RunID   string
}

type Coordinator struct {
	proc Processor
	opts Options

	mu    sync.Mutex
	state State
}

func New(proc Processor, opts Options) *Coordinator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Rules == nil {
		opts.Rules = sniff.DefaultRules
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.NewSink == nil {
		out, interactive := opts.Out, opts.Interactive
		opts.NewSink = func(total int) Sink {
			if interactive {
				return progress.New(out, total, "Processing files")
			}
			return progress.NewPlain(out)
		}
	}
	return &Coordinator{proc: proc, opts: opts}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.opts.Log.Debug("state " + s.String())
}

// runs the whole pipeline; only setup problems return an error,
// per-item failures end up in the report
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	log := c.opts.Log.With("run_id", c.opts.RunID)
	console := progress.NewPlain(c.opts.Out)

	if err := util.ValidateDir(c.opts.Root); err != nil {
		return nil, err
	}

	c.setState(Discovering)
	log.Info("run started on " + c.opts.Root)

	items, renames, err := c.discover(ctx, console, log)
	if err != nil {
		c.setState(Aborted)
		return nil, err
	}

	console.Write(util.Info(fmt.Sprintf("Found %d image files. Starting parallel processing...", len(items))))
	console.Write(util.Info(fmt.Sprintf("Using %d threads for processing.", c.opts.Workers)))

	ledger := NewLedger(c.opts.CountTranscodeFailures)
	c.dispatch(ctx, items, ledger, log)

	report := newReport(c.opts.RunID, c.opts.Root, started, len(items), ledger.Snapshot())
	report.DryRun = c.opts.DryRun
	report.Renamed = renames
	report.Aborted = ctx.Err() != nil || report.Abandoned > 0

	if report.Aborted {
		c.setState(Aborted)
	} else {
		c.setState(Reporting)
		console.Write(util.Done("All files processed."))
	}

	report.Print(console)
	report.Cleanup = c.cleanup(report, console, log)
	report.Finished = time.Now()

	log.Info(fmt.Sprintf("run finished: %d succeeded, %d failed, %d skipped, %d abandoned",
		report.Succeeded, report.Failed, report.Skipped, report.Abandoned))

	if c.opts.ReportPath != "" {
		if err := report.WriteYAML(c.opts.ReportPath); err != nil {
			console.Write(util.Warn(err.Error()))
			log.Error(err.Error())
		} else {
			console.Write(util.Info("Report written to " + c.opts.ReportPath))
		}
	}

	return report, nil
}

func (c *Coordinator) discover(ctx context.Context, console process.Console, log *logging.Logger) ([]media.Item, []Rename, error) {
	var paths []string
	walk := func(out process.Console) (string, error) {
		if !c.opts.DryRun {
			PurgeTemp(c.opts.Root, out, log)
		}
		var err error
		paths, err = Collect(c.opts.Root, log)
		return "", err
	}

	var err error
	if c.opts.Interactive {
		_, err = util.SpinWhileTo(c.opts.Out, "Discovering media", func(w io.Writer) (string, error) {
			return walk(progress.NewPlain(w))
		})
	} else {
		_, err = walk(console)
	}
	if err != nil {
		return nil, nil, err
	}

	items, renames := Itemize(ctx, paths, c.opts.Sniffer, c.opts.Rules, c.opts.DryRun, console, log)
	return items, renames, nil
}

// feeds items to the pool until ctx is done, then waits for everything started
func (c *Coordinator) dispatch(ctx context.Context, items []media.Item, ledger *Ledger, log *logging.Logger) {
	sink := c.opts.NewSink(len(items))
	defer sink.Close()

	notified := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(notified)
		sink.Write(util.Warn("Ctrl + C detected. Shutting down gracefully..."))
		log.Warning("interrupt received, no new items will start")
	})
	defer func() {
		if !stop() {
			<-notified
		}
	}()

	c.setState(Dispatching)

	if c.opts.DryRun {
		for _, item := range items {
			if ctx.Err() != nil {
				break
			}
			o := c.proc.Preview(item)
			if o.Failed() {
				sink.Write(util.Warn(fmt.Sprintf("No JSON found for %s", item.Path)))
			}
			ledger.Record(o)
			sink.Advance(1)
		}
		c.setState(Draining)
		return
	}

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)

	for _, item := range items {
		if ctx.Err() != nil {
			sink.Write(util.Warn("Shutdown signal received. Stopping remaining tasks..."))
			break
		}
		g.Go(func() error {
			o := c.proc.Process(ctx, item, sink)
			if o.Kind == process.Abandoned {
				return nil
			}
			ledger.Record(o)
			sink.Advance(1)
			return nil
		})
	}

	c.setState(Draining)
	g.Wait()
}

// deletes every sidecar only after a clean, complete run
func (c *Coordinator) cleanup(r *Report, console process.Console, log *logging.Logger) CleanupDecision {
	keep := func(reason, msg string) CleanupDecision {
		console.Write(util.Warn(msg))
		log.Info("sidecars kept: " + reason)
		return CleanupDecision{Reason: reason}
	}

	switch {
	case c.opts.DryRun:
		return keep(KeepDryRun, "Dry run, JSON files will not be deleted.")
	case r.Aborted:
		return keep(KeepInterrupted, "Run interrupted. JSON files will not be deleted.")
	case r.Failed > 0:
		return keep(KeepFailures, "Some files failed. JSON files will not be deleted.")
	case !c.opts.Cleanup:
		return keep(KeepDisabled, "Cleanup disabled. JSON files will not be deleted.")
	}

	console.Write(util.Done("All images processed successfully. Deleting JSON files..."))
	removed, err := util.RemoveBySuffix(c.opts.Root, ".json",
		func(path string) {
			console.Write(util.SUB.Render("Deleted JSON: " + path))
		},
		func(path string, err error) {
			console.Write(util.Warn(fmt.Sprintf("Error deleting JSON file %s: %v", path, err)))
			log.Warning(fmt.Sprintf("sidecar %s: %v", path, err))
		})
	if err != nil {
		console.Write(util.Warn("Error deleting JSON files: " + err.Error()))
		log.Error(err.Error())
	}

	log.Info(fmt.Sprintf("deleted %d sidecars", removed))
	return CleanupDecision{Deleted: true, Removed: removed}
}
