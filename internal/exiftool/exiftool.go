// BYZRA ⸻ internal/exiftool/exiftool.go
// exiftool wrapper for metadata writes and repair

package exiftool

import (
	"context"

	"reclaim/internal/util"
)

const DefaultBin = "exiftool"

// one tag assignment, rendered as -Tag=Value
type Field struct {
	Tag   string
	Value string
}

func (f Field) Arg() string {
	return "-" + f.Tag + "=" + f.Value
}

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

// argument list for a write, target path last
func WriteArgs(path string, fields []Field) []string {
	args := make([]string, 0, len(fields)+3)
	args = append(args, "-overwrite_original", "-m")
	for _, f := range fields {
		args = append(args, f.Arg())
	}
	return append(args, path)
}

// writes fields into path in place
func (t *Tool) Write(ctx context.Context, path string, fields []Field) util.CommandResult {
	return t.Runner.Run(ctx, t.Bin, WriteArgs(path, fields)...)
}

// removes every metadata block from path
func (t *Tool) StripAll(ctx context.Context, path string) util.CommandResult {
	return t.Runner.Run(ctx, t.Bin, "-all=", "-overwrite_original", path)
}
