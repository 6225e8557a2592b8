// BYZRA ⸻ internal/process/outcome.go
// result of processing one media file

package process

import "reclaim/internal/media"

type Kind int

const (
	Success       Kind = iota
	Repaired           // succeeded on the retry after a repair
	RetryAccepted      // repair or retry failed, accepted under the accept policy
	SoftFailure        // transcode failed, the file is left as is
	HardFailure
	TimedOut
	Abandoned // shutdown seen before the item started, never recorded
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Repaired:
		return "repaired"
	case RetryAccepted:
		return "retry accepted"
	case SoftFailure:
		return "soft failure"
	case HardFailure:
		return "hard failure"
	case TimedOut:
		return "timed out"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// reasons shared with the run report
const (
	ReasonNoSidecar   = "No JSON file found"
	ReasonInterrupted = "interrupted before retry"
)

type Outcome struct {
	Kind   Kind
	Item   media.Item // final path, after any transcode
	Reason string
}

func (o Outcome) Succeeded() bool {
	return o.Kind == Success || o.Kind == Repaired || o.Kind == RetryAccepted
}

func (o Outcome) Failed() bool {
	return o.Kind == HardFailure || o.Kind == TimedOut
}

// succeeded, but someone should look at the file
func (o Outcome) Flagged() bool {
	return o.Kind == RetryAccepted
}

func outcome(kind Kind, item media.Item, reason string) Outcome {
	return Outcome{Kind: kind, Item: item, Reason: reason}
}
