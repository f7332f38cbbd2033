//go:build !unix

package dumper

import (
	"os/exec"
	"time"
)

// Without process groups only the launcher itself is killed on cancel.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = 3 * time.Second
}
