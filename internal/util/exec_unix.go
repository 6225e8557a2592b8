// BYZRA ⸻ internal/util/exec_unix.go
// process group isolation for external tools

//go:build unix

package util

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// grandchildren get this long to release stdout/stderr after a kill
const killWaitDelay = 2 * time.Second

// own process group: Ctrl+C goes to the foreground group only,
// a timeout kills the whole group
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = killWaitDelay
}
