// BYZRA ⸻ internal/run/report.go
// end-of-run report, printed and optionally written as YAML

package run

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"reclaim/internal/process"
	"reclaim/internal/util"
)

// reasons the sidecars were kept
const (
	KeepDryRun      = "dry run"
	KeepInterrupted = "run interrupted"
	KeepFailures    = "failures present"
	KeepDisabled    = "cleanup disabled"
)

type CleanupDecision struct {
	Deleted bool   `yaml:"deleted"`
	Removed int    `yaml:"removed"`
	Reason  string `yaml:"reason,omitempty"`
}

type Report struct {
	RunID      string    `yaml:"run_id"`
	Root       string    `yaml:"root"`
	Started    time.Time `yaml:"started"`
	Finished   time.Time `yaml:"finished"`
	DryRun     bool      `yaml:"dry_run,omitempty"`
	Aborted    bool      `yaml:"aborted"`
	Discovered int       `yaml:"discovered"`
	Abandoned  int       `yaml:"abandoned"`
	Succeeded  int       `yaml:"succeeded"`
	Failed     int       `yaml:"failed"`
	Skipped    int       `yaml:"skipped"`

	Failures []Failure       `yaml:"failures,omitempty"`
	Flagged  []Flag          `yaml:"flagged,omitempty"`
	Renamed  []Rename        `yaml:"renamed,omitempty"`
	Cleanup  CleanupDecision `yaml:"cleanup"`
}

func newReport(id, root string, started time.Time, discovered int, s Summary) *Report {
	return &Report{
		RunID:      id,
		Root:       root,
		Started:    started,
		Discovered: discovered,
		Abandoned:  discovered - s.Recorded(),
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		Skipped:    s.Skipped,
		Failures:   s.Failures,
		Flagged:    s.Flagged,
	}
}

// failure lines, flagged items, then the counters
func (r *Report) Print(out process.Console) {
	if len(r.Failures) > 0 {
		out.Write("")
		out.Write(util.LBL.Render("Failure Details:"))
		for _, f := range r.Failures {
			out.Write(util.SUB.Render(fmt.Sprintf("%s: %s", f.Path, f.Reason)))
		}
	}

	if len(r.Flagged) > 0 {
		out.Write("")
		out.Write(util.LBL.Render("Flagged for review:"))
		for _, f := range r.Flagged {
			out.Write(util.SUB.Render(fmt.Sprintf("%s: %s", f.Path, f.Reason)))
		}
	}

	out.Write("")
	out.Write(util.LBL.Render("Summary:"))
	out.Write(util.NSH.Render(fmt.Sprintf("Success: %d", r.Succeeded)))
	out.Write(util.NSH.Render(fmt.Sprintf("Failure: %d", r.Failed)))
	if r.Skipped > 0 {
		out.Write(util.NSH.Render(fmt.Sprintf("Skipped: %d", r.Skipped)))
	}
	if len(r.Flagged) > 0 {
		out.Write(util.NSH.Render(fmt.Sprintf("Flagged: %d", len(r.Flagged))))
	}
	if r.Abandoned > 0 {
		out.Write(util.NSH.Render(fmt.Sprintf("Abandoned: %d", r.Abandoned)))
	}
}

func (r *Report) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func ReadYAML(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}
