// BYZRA ⸻ internal/process/processor.go
// one media file in, one outcome out: transcode, resolve, write, repair, retry

package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/exiftool"
	"reclaim/internal/logging"
	"reclaim/internal/media"
	"reclaim/internal/sidecar"
	"reclaim/internal/util"
)

type MetadataWriter interface {
	Write(ctx context.Context, path string, fields []exiftool.Field) util.CommandResult
	StripAll(ctx context.Context, path string) util.CommandResult
}

type Transcoder interface {
	ConvertToMP4(ctx context.Context, src string) (string, util.CommandResult)
	RepairImage(ctx context.Context, path string) util.CommandResult
}

type Verifier interface {
	Verify(path string, want exiftool.Expectation) error
}

// where user-facing lines go, usually the progress sink
type Console interface {
	Write(line string)
}

type Processor struct {
	Writer     MetadataWriter
	Transcoder Transcoder
	Verifier   Verifier // nil skips readback

	Resolve     func(mediaPath string) (string, error) // sidecar.Resolve when nil
	Location    *time.Location
	Profile     *config.Profile
	RetryPolicy config.RetryPolicy
	Log         *logging.Logger
	Now         func() time.Time
}

// collaborators for one write attempt
type attempt struct {
	item   media.Item
	fields []exiftool.Field
	want   exiftool.Expectation
	out    Console
	log    *logging.Logger
}

func (p *Processor) logger() *logging.Logger {
	if p.Log == nil {
		return logging.Nop()
	}
	return p.Log
}

func (p *Processor) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p *Processor) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Processor) resolve(path string) (string, error) {
	if p.Resolve == nil {
		return sidecar.Resolve(path)
	}
	return p.Resolve(path)
}

// sidecar lookup only, nothing is written
func (p *Processor) Preview(item media.Item) Outcome {
	if _, err := p.resolve(item.Path); err != nil {
		return outcome(HardFailure, item, resolveReason(err))
	}
	return outcome(Success, item, "")
}

func resolveReason(err error) string {
	if errors.Is(err, sidecar.ErrNotFound) {
		return ReasonNoSidecar
	}
	return err.Error()
}

func (p *Processor) Process(ctx context.Context, item media.Item, out Console) Outcome {
	if ctx.Err() != nil {
		return outcome(Abandoned, item, "")
	}

	log := p.logger().With("path", item.Path)
	out.Write(util.Working("Processing " + item.Path))

	if item.Kind == media.KindLegacy {
		converted, ok := p.convert(ctx, item, out, log)
		if !ok {
			return converted
		}
		item = converted.Item
	}

	jsonPath, err := p.resolve(item.Path)
	if err != nil {
		reason := resolveReason(err)
		out.Write(util.Fail(fmt.Sprintf("No JSON found for %s", item.Path)))
		log.Error(reason)
		return outcome(HardFailure, item, reason)
	}
	log.Debug("sidecar " + jsonPath)

	rec, err := sidecar.Load(jsonPath)
	if err != nil {
		return p.hard(item, err.Error(), out, log)
	}

	loc := p.location()
	a := attempt{
		item:   item,
		fields: BuildFields(rec, loc, p.Profile.Expand(p.now().In(loc))),
		want:   expectationFor(item.Kind, rec, loc),
		out:    out,
		log:    log,
	}

	res := p.Writer.Write(ctx, item.Path, a.fields)
	return p.classify(ctx, a, res)
}

// transcodes a legacy container; the outcome carries the new item on success
func (p *Processor) convert(ctx context.Context, item media.Item, out Console, log *logging.Logger) (Outcome, bool) {
	dst, res := p.Transcoder.ConvertToMP4(ctx, item.Path)
	if !res.OK() {
		reason := "conversion failed: " + res.Diagnostic()
		out.Write(util.Warn(fmt.Sprintf("Conversion failed for %s: %s", item.Path, res.Diagnostic())))
		log.Warning(reason)
		return outcome(SoftFailure, item, reason), false
	}

	if err := os.Remove(item.Path); err != nil {
		log.Warning("converted but could not remove source: " + err.Error())
	} else {
		out.Write(util.Done("Converted and deleted: " + item.Path))
	}
	log.Info("converted to " + dst)

	return outcome(Success, item.Renamed(dst), ""), true
}

func (p *Processor) classify(ctx context.Context, a attempt, res util.CommandResult) Outcome {
	if res.OK() {
		return p.verify(a, Success)
	}

	diag := res.Diagnostic()
	if res.TimedOut {
		return p.timedOut(a, diag)
	}

	switch exiftool.Classify(diag) {
	case exiftool.FaultCorruptThumbnail:
		a.out.Write(util.Warn("Attempting to repair corrupted metadata for " + a.item.Path))
		if ctx.Err() != nil {
			return p.hard(a.item, ReasonInterrupted, a.out, a.log)
		}
		if strip := p.Writer.StripAll(ctx, a.item.Path); !strip.OK() {
			reason := "metadata strip failed: " + strip.Diagnostic()
			if p.RetryPolicy == config.RetryClassify {
				return p.hard(a.item, reason, a.out, a.log)
			}
			// the write is retried regardless of the strip result
			a.out.Write(util.Warn(fmt.Sprintf("Metadata strip failed for %s. Retrying anyway...", a.item.Path)))
			a.log.Warning(reason)
		} else {
			a.out.Write(util.Info(fmt.Sprintf("Metadata repaired for %s. Retrying...", a.item.Path)))
		}
		return p.retry(ctx, a)

	case exiftool.FaultCorruptImageStream:
		a.out.Write(util.Warn("Detected corrupted JPEG. Attempting repair using ffmpeg: " + a.item.Path))
		if ctx.Err() != nil {
			return p.hard(a.item, ReasonInterrupted, a.out, a.log)
		}
		if rep := p.Transcoder.RepairImage(ctx, a.item.Path); !rep.OK() {
			return p.repairFailed(a, "image repair failed: "+rep.Diagnostic())
		}
		a.out.Write(util.Info("Retrying metadata application for repaired image: " + a.item.Path))
		return p.retry(ctx, a)
	}

	return p.hard(a.item, diag, a.out, a.log)
}

// one more write after a repair; never repairs again
func (p *Processor) retry(ctx context.Context, a attempt) Outcome {
	if ctx.Err() != nil {
		return p.hard(a.item, ReasonInterrupted, a.out, a.log)
	}

	res := p.Writer.Write(ctx, a.item.Path, a.fields)
	if res.OK() {
		return p.verify(a, Repaired)
	}

	if p.RetryPolicy == config.RetryClassify {
		if res.TimedOut {
			return p.timedOut(a, res.Diagnostic())
		}
		return p.hard(a.item, "retry failed: "+res.Diagnostic(), a.out, a.log)
	}

	return p.accept(a, "retry failed: "+res.Diagnostic())
}

func (p *Processor) repairFailed(a attempt, reason string) Outcome {
	if p.RetryPolicy == config.RetryClassify {
		return p.hard(a.item, reason, a.out, a.log)
	}
	return p.accept(a, reason)
}

func (p *Processor) accept(a attempt, reason string) Outcome {
	a.out.Write(util.Warn(fmt.Sprintf("Accepted %s without a clean write: %s", a.item.Path, reason)))
	a.log.Warning("retry accepted: " + reason)
	return outcome(RetryAccepted, a.item, reason)
}

func (p *Processor) verify(a attempt, kind Kind) Outcome {
	if p.Verifier != nil {
		if err := p.Verifier.Verify(a.item.Path, a.want); err != nil {
			return p.hard(a.item, "verification failed: "+err.Error(), a.out, a.log)
		}
	}
	if kind == Repaired {
		a.log.Info("written after repair")
	} else {
		a.log.Debug("written")
	}
	return outcome(kind, a.item, "")
}

func (p *Processor) timedOut(a attempt, diag string) Outcome {
	reason := "timed out: " + diag
	a.out.Write(util.Fail(fmt.Sprintf("Error processing %s: %s", a.item.Path, reason)))
	a.log.Error(reason)
	return outcome(TimedOut, a.item, reason)
}

func (p *Processor) hard(item media.Item, reason string, out Console, log *logging.Logger) Outcome {
	out.Write(util.Fail(fmt.Sprintf("Error processing %s: %s", item.Path, reason)))
	log.Error(reason)
	return outcome(HardFailure, item, reason)
}
