// Package dumper runs the archive dump: it prepares the class list, rewrites
// the runtime command line into a dump command, runs it and removes the
// temporary files left by preprocessing.
//
// A run moves through
//
//	Uninitialized -> Prepared -> ListGenerated -> Invoked -> CleanedUp -> Done
//
// and ends in Failed at the first error. Nothing is retried.
package dumper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mabhi256/jsadump/internal/classlist"
	"github.com/mabhi256/jsadump/internal/jdk"
	"github.com/mabhi256/jsadump/internal/jvmargs"
)

// JDKLocator resolves the JDK whose launcher runs the dump.
type JDKLocator interface {
	Locate() (jdk.Home, error)
}

// Record is one run as reported to a Recorder.
type Record struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	State      State
	Err        string
	Dir        string
	Archive    string
	Command    []string
}

// Recorder keeps a ledger of runs. Its failures are logged and never fail a
// run.
type Recorder interface {
	RunStarted(ctx context.Context, rec Record) error
	RunFinished(ctx context.Context, rec Record) error
}

type Options struct {
	Preprocessor classlist.Preprocessor
	Runner       Runner
	JDK          JDKLocator
	Recorder     Recorder // optional
	Logger       *zap.Logger
	SplitMode    jvmargs.SplitMode
}

// Result describes a finished run.
type Result struct {
	ID                         string
	State                      State
	Config                     Config
	Command                    []string
	HeapSize                   string
	CompressedPointersDisabled bool
	TempFiles                  []string
	Duration                   time.Duration
}

// Orchestrator sequences one dump run. It is not safe for concurrent use.
type Orchestrator struct {
	pre      classlist.Preprocessor
	runner   Runner
	jdk      JDKLocator
	recorder Recorder
	logger   *zap.Logger
	split    jvmargs.SplitMode
	now      func() time.Time

	state State
}

func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	split := opts.SplitMode
	if split == "" {
		split = jvmargs.SplitPlain
	}
	return &Orchestrator{
		pre:      opts.Preprocessor,
		runner:   opts.Runner,
		jdk:      opts.JDK,
		recorder: opts.Recorder,
		logger:   logger,
		split:    split,
		now:      time.Now,
	}
}

// State returns the state reached by the last run.
func (o *Orchestrator) State() State {
	return o.state
}

// Run executes cfg from start to finish. On failure the returned error is a
// *RunError and the result carries whatever was known at that point.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (*Result, error) {
	o.state = Uninitialized
	res := &Result{ID: uuid.NewString(), Config: cfg}
	start := o.now()
	log := o.logger.With(zap.String("run", res.ID))

	rec := Record{ID: res.ID, StartedAt: start, State: Uninitialized, Dir: cfg.Dir}
	o.record(ctx, log, rec, false)

	err := o.run(ctx, log, cfg, res)

	res.State = o.state
	res.Duration = o.now().Sub(start)

	rec.FinishedAt = start.Add(res.Duration)
	rec.State = o.state
	rec.Dir = res.Config.Dir
	rec.Archive = res.Config.Archive
	rec.Command = res.Command
	if err != nil {
		rec.Err = err.Error()
		log.Error("dump failed", zap.Stringer("state", o.state), zap.Error(err))
	} else {
		log.Info("dump finished",
			zap.String("archive", res.Config.Archive),
			zap.Duration("duration", res.Duration),
		)
	}
	// An interrupted run is still recorded.
	o.record(context.WithoutCancel(ctx), log, rec, true)

	return res, err
}

func (o *Orchestrator) run(ctx context.Context, log *zap.Logger, cfg Config, res *Result) error {
	prepared, err := cfg.Prepare()
	if err != nil {
		return o.fail(Prepared, ErrConfig, err)
	}
	res.Config = prepared
	o.advance(log, Prepared)

	if err := o.pre.Preprocess(ctx, prepared.OriginList, prepared.FinalList, prepared.Dir); err != nil {
		res.TempFiles = o.pre.TempFiles()
		return o.fail(ListGenerated, ErrPreprocess, err)
	}
	res.TempFiles = o.pre.TempFiles()
	o.advance(log, ListGenerated)

	home, err := o.jdk.Locate()
	if err != nil {
		return o.fail(Invoked, ErrJDKNotFound, err)
	}

	tokens, err := jvmargs.Split(prepared.RuntimeCommand, o.split)
	if err != nil {
		return o.fail(Invoked, jvmargs.ErrParse, err)
	}

	opts := jvmargs.DumpOptions{
		Java:          home.Java(),
		ClassListPath: prepared.FinalList,
		ArchivePath:   prepared.Archive,
		Classpath:     prepared.Classpath,
		Eager:         prepared.Eager,
	}
	if prepared.Eager {
		opts.AgentPath = home.AgentPath(prepared.Agent)
	}
	dump, err := jvmargs.Rewrite(tokens, opts)
	if err != nil {
		if errors.Is(err, jvmargs.ErrParse) {
			return o.fail(Invoked, jvmargs.ErrParse, err)
		}
		return o.fail(Invoked, ErrConfig, err)
	}
	res.Command = dump.Argv
	res.HeapSize = dump.Filtered.HeapSize.String()
	res.CompressedPointersDisabled = dump.Filtered.CompressedPointersDisabled

	if dump.Filtered.CompressedPointersDisabled {
		log.Info("compressed oops disabled for dump", zap.String("max_heap", res.HeapSize))
	}
	if prepared.Verbose {
		log.Info("current JVM arguments", zap.Strings("args", dump.Filtered.Args))
		log.Info("dump command", zap.String("command", strings.Join(dump.Argv, " ")))
	}

	if err := o.runner.Run(ctx, dump.Argv, prepared.LogPath(), prepared.Verbose); err != nil {
		return o.fail(Invoked, ErrProcess, fmt.Errorf("%s: %w", strings.Join(dump.Argv, " "), err))
	}
	o.advance(log, Invoked)

	if err := removeTemp(res.TempFiles); err != nil {
		return o.fail(CleanedUp, ErrCleanup, err)
	}
	o.advance(log, CleanedUp)

	o.advance(log, Done)
	return nil
}

func (o *Orchestrator) advance(log *zap.Logger, next State) {
	log.Debug("state transition", zap.Stringer("from", o.state), zap.Stringer("to", next))
	o.state = next
}

// fail ends the run while transitioning to target.
func (o *Orchestrator) fail(target State, kind, err error) error {
	runErr := &RunError{State: target, Kind: kind, Err: err}
	o.state = Failed
	return runErr
}

func (o *Orchestrator) record(ctx context.Context, log *zap.Logger, rec Record, finished bool) {
	if o.recorder == nil {
		return
	}
	var err error
	if finished {
		err = o.recorder.RunFinished(ctx, rec)
	} else {
		err = o.recorder.RunStarted(ctx, rec)
	}
	if err != nil {
		log.Warn("failed to record run history", zap.Error(err))
	}
}
