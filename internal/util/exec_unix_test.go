//go:build unix

package util

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interruptHelperEnv = "RECLAIM_INTERRUPT_HELPER"

// runs in a re-executed test binary that leads its own process group:
// starts a tool, then interrupts the whole group the way a terminal Ctrl+C does
func TestExecRunner_InterruptHelper(t *testing.T) {
	if os.Getenv(interruptHelperEnv) != "1" {
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan CommandResult, 1)
	go func() {
		done <- ExecRunner{}.Run(ctx, "sleep", "1")
	}()

	time.Sleep(300 * time.Millisecond)
	syscall.Kill(-syscall.Getpgrp(), syscall.SIGINT)
	<-sig
	cancel()

	res := <-done
	if !res.OK() {
		fmt.Printf("tool killed: %s\n", res.Diagnostic())
		os.Exit(3)
	}
	fmt.Println("tool finished")
	os.Exit(0)
}

func TestExecRunner_SurvivesGroupInterrupt(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExecRunner_InterruptHelper$")
	cmd.Env = append(os.Environ(), interruptHelperEnv+"=1")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "tool finished")
}

func TestExecRunner_TimeoutKillsGroup(t *testing.T) {
	needShell(t)

	// sh keeps sleep as a child holding the output pipes
	start := time.Now()
	res := ExecRunner{Timeout: 100 * time.Millisecond}.Run(context.Background(), "sh", "-c", "sleep 5; echo late")
	assert.True(t, res.TimedOut)
	assert.False(t, res.OK())
	assert.NotContains(t, res.Stdout, "late")
	assert.Less(t, time.Since(start), 4*time.Second)
}
