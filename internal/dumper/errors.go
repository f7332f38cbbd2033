package dumper

import (
	"errors"
	"fmt"

	"github.com/mabhi256/jsadump/internal/jdk"
)

var (
	// ErrUsage indicates a malformed invocation, such as a wrong argument count.
	ErrUsage = errors.New("dumper: usage error")

	// ErrConfig indicates the run configuration could not be prepared.
	ErrConfig = errors.New("dumper: configuration error")

	// ErrPreprocess wraps any failure of the list preprocessor.
	ErrPreprocess = errors.New("dumper: preprocessing error")

	// ErrProcess indicates the dump process could not start or exited nonzero.
	ErrProcess = errors.New("dumper: dump process failed")

	// ErrCleanup indicates a temporary artifact could not be removed.
	ErrCleanup = errors.New("dumper: cleanup error")

	ErrJDKNotFound = jdk.ErrNotFound
)

// RunError is returned by Orchestrator.Run. State is the transition that
// failed, Kind one of the sentinels above or jvmargs.ErrParse.
type RunError struct {
	State State
	Kind  error
	Err   error
}

func (e *RunError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v (entering %s)", e.Kind, e.State)
	}
	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%v (entering %s)", e.Err, e.State)
	}
	return fmt.Sprintf("%v (entering %s): %v", e.Kind, e.State, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *RunError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ProcessError describes a dump process that failed to start or exited with
// a nonzero status.
type ProcessError struct {
	Command  []string
	LogPath  string
	ExitCode int // -1 when the process never started or was killed
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("dump process exited with status %d, see %s", e.ExitCode, e.LogPath)
	}
	return fmt.Sprintf("dump process failed: %v, see %s", e.Err, e.LogPath)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
