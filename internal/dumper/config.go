package dumper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArgCount is the number of positional arguments of a dump invocation.
const ArgCount = 9

// Config describes one dump run. It is built once at the CLI boundary and
// never modified after Prepare.
type Config struct {
	Dir            string
	OriginList     string
	FinalList      string
	Eager          bool
	Archive        string
	Agent          string
	Verbose        bool
	RuntimeCommand string
	Classpath      string

	prepared bool
}

// ParseArgs builds a Config from the positional arguments
//
//	dir originList finalList eager jsa agent verbose commandLine cp
func ParseArgs(args []string) (Config, error) {
	if len(args) != ArgCount {
		return Config{}, fmt.Errorf("%w: expected %d arguments, got %d", ErrUsage, ArgCount, len(args))
	}
	return Config{
		Dir:            args[0],
		OriginList:     args[1],
		FinalList:      args[2],
		Eager:          ParseBool(args[3]),
		Archive:        args[4],
		Agent:          args[5],
		Verbose:        ParseBool(args[6]),
		RuntimeCommand: args[7],
		Classpath:      args[8],
	}, nil
}

// ParseBool is true only for "true" in any letter case. Anything else,
// including "1" and "yes", is false.
func ParseBool(s string) bool {
	return strings.EqualFold(s, "true")
}

// Prepare checks the working directory and roots the class list and archive
// names at it. It returns the prepared copy.
func (c Config) Prepare() (Config, error) {
	if c.prepared {
		return c, nil
	}
	if c.Dir == "" {
		return c, fmt.Errorf("%w: working directory is empty", ErrConfig)
	}
	info, err := os.Stat(c.Dir)
	if err != nil {
		return c, fmt.Errorf("%w: %s is not a directory: %v", ErrConfig, c.Dir, err)
	}
	if !info.IsDir() {
		return c, fmt.Errorf("%w: %s is not a directory", ErrConfig, c.Dir)
	}

	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	c.Dir = dir
	c.OriginList = filepath.Join(dir, c.OriginList)
	c.FinalList = filepath.Join(dir, c.FinalList)
	c.Archive = filepath.Join(dir, c.Archive)
	c.prepared = true
	return c, nil
}

// Prepared reports whether Prepare produced c.
func (c Config) Prepared() bool {
	return c.prepared
}

// LogDir is where the dump process log and the run history are kept.
func (c Config) LogDir() string {
	return filepath.Join(c.Dir, "logs")
}

// LogPath is the dump process log.
func (c Config) LogPath() string {
	return filepath.Join(c.LogDir(), "jsa.log")
}
