// BYZRA ⸻ internal/run/ledger.go
// per-run counters and failure list, shared by every worker

package run

import (
	"sort"
	"sync"

	"reclaim/internal/process"
)

type Failure struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
	Kind   string `yaml:"kind"`
	Seq    int    `yaml:"-"`
}

type Flag struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
	Seq    int    `yaml:"-"`
}

// frozen copy of a Ledger, failures and flags in submission order
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
	Failures  []Failure
	Flagged   []Flag
}

func (s Summary) Recorded() int {
	return s.Succeeded + s.Failed + s.Skipped
}

// one mutex guards every field; nothing under it does I/O
type Ledger struct {
	mu        sync.Mutex
	countSoft bool

	succeeded int
	failed    int
	skipped   int
	failures  []Failure
	flagged   []Flag
}

// countSoft records transcode failures as failures instead of skips
func NewLedger(countSoft bool) *Ledger {
	return &Ledger{countSoft: countSoft}
}

// abandoned outcomes are ignored
func (l *Ledger) Record(o process.Outcome) {
	if o.Kind == process.Abandoned {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case o.Succeeded():
		l.succeeded++
		if o.Flagged() {
			l.flagged = append(l.flagged, Flag{Path: o.Item.Path, Reason: o.Reason, Seq: o.Item.Seq})
		}
	case o.Failed(), o.Kind == process.SoftFailure && l.countSoft:
		l.failed++
		l.failures = append(l.failures, Failure{
			Path:   o.Item.Path,
			Reason: o.Reason,
			Kind:   o.Kind.String(),
			Seq:    o.Item.Seq,
		})
	default:
		l.skipped++
	}
}

func (l *Ledger) Snapshot() Summary {
	l.mu.Lock()
	s := Summary{
		Succeeded: l.succeeded,
		Failed:    l.failed,
		Skipped:   l.skipped,
		Failures:  append([]Failure(nil), l.failures...),
		Flagged:   append([]Flag(nil), l.flagged...),
	}
	l.mu.Unlock()

	sort.SliceStable(s.Failures, func(i, j int) bool { return s.Failures[i].Seq < s.Failures[j].Seq })
	sort.SliceStable(s.Flagged, func(i, j int) bool { return s.Flagged[i].Seq < s.Flagged[j].Seq })
	return s
}
