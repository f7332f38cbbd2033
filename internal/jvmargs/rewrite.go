package jvmargs

import (
	"fmt"
)

// SharedReadWriteSize is the read-write region size requested for every dump.
const SharedReadWriteSize = "512M"

// DumpOptions describes the dump process to build.
type DumpOptions struct {
	Java          string // path to the java launcher of the dumping JDK
	ClassListPath string // -XX:SharedClassListFile
	ArchivePath   string // -XX:SharedArchiveFile
	Classpath     string
	Eager         bool
	AgentPath     string // prepended to the boot classpath in eager mode
}

// DumpCommand is a rewritten dump command line.
type DumpCommand struct {
	// Filtered holds the runtime arguments carried over to the dump.
	Filtered *FilterResult

	// Argv is the full argument vector, Argv[0] being the java launcher.
	Argv []string
}

// Rewrite filters the runtime tokens and assembles the dump command.
func Rewrite(tokens []string, opts DumpOptions) (*DumpCommand, error) {
	if opts.Java == "" {
		return nil, fmt.Errorf("java launcher path is required")
	}
	if opts.Eager && opts.AgentPath == "" {
		return nil, fmt.Errorf("agent path is required in eager mode")
	}

	filtered, err := Filter(tokens)
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, len(filtered.Args)+16)
	argv = append(argv, opts.Java)
	argv = append(argv, filtered.Args...)
	argv = append(argv,
		"-XX:+UnlockDiagnosticVMOptions",
		"-Xshare:dump",
		"-XX:SharedClassListFile="+opts.ClassListPath,
		"-XX:SharedArchiveFile="+opts.ArchivePath,
		"-XX:SharedReadWriteSize="+SharedReadWriteSize,
		"-XX:+UnlockExperimentalVMOptions",
		"-XX:+EagerAppCDSLegacyVerisonSupport",
		// No tool may attach while the archive is written.
		"-XX:+DisableAttachMechanism",
	)
	if opts.Eager {
		argv = append(argv,
			"-XX:+EagerAppCDS",
			"-Xbootclasspath/a:"+opts.AgentPath,
		)
	}
	argv = append(argv, "-cp", opts.Classpath)

	return &DumpCommand{Filtered: filtered, Argv: argv}, nil
}
