package dumper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Runner executes the dump process and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, argv []string, logPath string, verbose bool) error
}

// ExecRunner runs the dump process with os/exec. Output goes to the log file
// and, when verbose, to Console as well. There is no timeout; the process
// group is killed only when ctx is cancelled.
type ExecRunner struct {
	Console io.Writer
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, argv []string, logPath string, verbose bool) error {
	if len(argv) == 0 {
		return &ProcessError{LogPath: logPath, ExitCode: -1, Err: errors.New("empty command")}
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return &ProcessError{Command: argv, LogPath: logPath, ExitCode: -1,
			Err: fmt.Errorf("failed to create log directory: %w", err)}
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &ProcessError{Command: argv, LogPath: logPath, ExitCode: -1,
			Err: fmt.Errorf("failed to open log file: %w", err)}
	}
	defer logFile.Close()

	var out io.Writer = logFile
	if verbose && r.Console != nil {
		out = io.MultiWriter(logFile, r.Console)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = out
	cmd.Stderr = out
	setupProcessGroup(cmd)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return &ProcessError{Command: argv, LogPath: logPath, ExitCode: exitErr.ExitCode(), Err: err}
		}
		if ctx.Err() != nil {
			err = fmt.Errorf("interrupted: %w", ctx.Err())
		}
		return &ProcessError{Command: argv, LogPath: logPath, ExitCode: -1, Err: err}
	}
	return nil
}
