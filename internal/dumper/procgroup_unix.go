//go:build unix

package dumper

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// processGroupWaitDelay bounds how long Wait keeps reading output after the
// group was killed.
const processGroupWaitDelay = 3 * time.Second

// setupProcessGroup starts cmd in its own session so that cancelling the
// context kills the JVM together with anything it forked.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true

	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return os.ErrProcessDone
		}
		pid := cmd.Process.Pid
		// kill(-1) and kill(0) would hit far more than the dump.
		if pid <= 1 {
			return os.ErrProcessDone
		}
		if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
			if errors.Is(err, unix.ESRCH) {
				return os.ErrProcessDone
			}
			return err
		}
		return nil
	}
	cmd.WaitDelay = processGroupWaitDelay
}
