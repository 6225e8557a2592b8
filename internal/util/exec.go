// BYZRA ⸻ internal/util/exec.go
// subprocess runner shared by the exiftool, ffmpeg and file collaborators

package util

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// outcome of a single external tool invocation
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
	TimedOut bool
}

func (r CommandResult) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// trimmed stderr, falling back to the exec error
func (r CommandResult) Diagnostic() string {
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return "Unknown Error"
}

type Runner interface {
	Run(ctx context.Context, name string, args ...string) CommandResult
}

// runs commands with os/exec
//
// Children are detached from ctx cancellation and, on unix, started in their
// own process group so a terminal interrupt does not reach them. Only Timeout
// (when > 0) kills a child, together with anything it spawned.
type ExecRunner struct {
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) CommandResult {
	ctx = context.WithoutCancel(ctx)
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	isolate(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return res
	}

	res.Err = err
	res.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
	}
	return res
}
