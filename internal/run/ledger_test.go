package run

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/media"
	"reclaim/internal/process"
)

func outcomeFor(kind process.Kind, seq int, reason string) process.Outcome {
	return process.Outcome{
		Kind:   kind,
		Item:   media.Item{Path: "/lib/" + string(rune('a'+seq%26)) + ".jpg", Kind: media.KindImage, Seq: seq},
		Reason: reason,
	}
}

func TestLedger_Counts(t *testing.T) {
	l := NewLedger(false)

	l.Record(outcomeFor(process.Success, 0, ""))
	l.Record(outcomeFor(process.Repaired, 1, ""))
	l.Record(outcomeFor(process.RetryAccepted, 2, "retry failed: boom"))
	l.Record(outcomeFor(process.SoftFailure, 3, "conversion failed"))
	l.Record(outcomeFor(process.HardFailure, 4, process.ReasonNoSidecar))
	l.Record(outcomeFor(process.TimedOut, 5, "timed out: "))
	l.Record(outcomeFor(process.Abandoned, 6, ""))

	s := l.Snapshot()
	assert.Equal(t, 3, s.Succeeded)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 6, s.Recorded())
	assert.Len(t, s.Failures, s.Failed)
	require.Len(t, s.Flagged, 1)
	assert.Equal(t, "retry failed: boom", s.Flagged[0].Reason)
}

func TestLedger_CountTranscodeFailures(t *testing.T) {
	l := NewLedger(true)
	l.Record(outcomeFor(process.SoftFailure, 0, "conversion failed"))

	s := l.Snapshot()
	assert.Equal(t, 1, s.Failed)
	assert.Zero(t, s.Skipped)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, "soft failure", s.Failures[0].Kind)
}

func TestLedger_ConcurrentRecordsInSubmissionOrder(t *testing.T) {
	l := NewLedger(false)

	var wg sync.WaitGroup
	for seq := 99; seq >= 0; seq-- {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kind := process.Success
			if seq%3 == 0 {
				kind = process.HardFailure
			}
			l.Record(outcomeFor(kind, seq, "x"))
		}()
	}
	wg.Wait()

	s := l.Snapshot()
	assert.Equal(t, 100, s.Recorded())
	assert.Equal(t, 34, s.Failed)
	assert.Len(t, s.Failures, s.Failed)
	for i := 1; i < len(s.Failures); i++ {
		assert.Less(t, s.Failures[i-1].Seq, s.Failures[i].Seq)
	}
}

func TestLedger_SnapshotIsACopy(t *testing.T) {
	l := NewLedger(false)
	l.Record(outcomeFor(process.HardFailure, 0, "x"))

	s := l.Snapshot()
	s.Failures[0].Reason = "changed"

	assert.Equal(t, "x", l.Snapshot().Failures[0].Reason)
}
