package util

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func needShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommandResult_Diagnostic(t *testing.T) {
	assert.Equal(t, "bad thing", CommandResult{Stderr: "  bad thing\n"}.Diagnostic())
	assert.Equal(t, "exec failed", CommandResult{Err: errors.New("exec failed")}.Diagnostic())
	assert.Equal(t, "Unknown Error", CommandResult{ExitCode: 1}.Diagnostic())
	assert.True(t, CommandResult{}.OK())
	assert.False(t, CommandResult{ExitCode: 2}.OK())
}

func TestExecRunner_ExitCodeAndStderr(t *testing.T) {
	needShell(t)

	res := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	assert.False(t, res.OK())
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err", res.Diagnostic())
	assert.False(t, res.TimedOut)
}

func TestExecRunner_IgnoresCancellation(t *testing.T) {
	needShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := ExecRunner{}.Run(ctx, "sh", "-c", "exit 0")
	assert.True(t, res.OK())
}

func TestExecRunner_Timeout(t *testing.T) {
	needShell(t)

	start := time.Now()
	res := ExecRunner{Timeout: 50 * time.Millisecond}.Run(context.Background(), "sh", "-c", "exec sleep 5")
	assert.True(t, res.TimedOut)
	assert.False(t, res.OK())
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	res := ExecRunner{}.Run(context.Background(), "reclaim-no-such-binary")
	assert.False(t, res.OK())
	assert.Equal(t, -1, res.ExitCode)
	assert.Error(t, res.Err)
}
