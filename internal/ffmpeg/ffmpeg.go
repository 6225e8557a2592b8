// BYZRA ⸻ internal/ffmpeg/ffmpeg.go
// ffmpeg wrapper for legacy container transcodes and JPEG re-encoding

package ffmpeg

import (
	"context"
	"fmt"
	"os"

	"reclaim/internal/util"
)

const (
	DefaultBin = "ffmpeg"

	repairedSuffix = "_repaired.jpg"
)

type Tool struct {
	Bin    string
	Runner util.Runner
}

func New(bin string, runner util.Runner) *Tool {
	if bin == "" {
		bin = DefaultBin
	}
	if runner == nil {
		runner = util.ExecRunner{}
	}
	return &Tool{Bin: bin, Runner: runner}
}

// h264 slow/crf18 video with 192k aac audio
func ConvertArgs(src, dst string) []string {
	return []string{
		"-y", "-i", src,
		"-c:v", "libx264", "-preset", "slow", "-crf", "18",
		"-c:a", "aac", "-b:a", "192k",
		dst,
	}
}

// single-frame mjpeg re-encode at the source size
func RepairArgs(src, dst string) []string {
	return []string{
		"-y", "-i", src,
		"-vf", "scale=iw:ih",
		"-c:v", "mjpeg",
		dst,
	}
}

// transcodes src to an .mp4 beside it; the source is left in place
func (t *Tool) ConvertToMP4(ctx context.Context, src string) (string, util.CommandResult) {
	dst := util.ReplaceExt(src, ".mp4")
	return dst, t.Runner.Run(ctx, t.Bin, ConvertArgs(src, dst)...)
}

// re-encodes a damaged JPEG and swaps it in over the original
func (t *Tool) RepairImage(ctx context.Context, path string) util.CommandResult {
	tmp := path + repairedSuffix

	res := t.Runner.Run(ctx, t.Bin, RepairArgs(path, tmp)...)
	if !res.OK() {
		os.Remove(tmp)
		return res
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		res.Err = fmt.Errorf("failed to replace repaired image: %w", err)
		res.ExitCode = -1
		return res
	}

	return res
}
