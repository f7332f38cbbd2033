package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mabhi256/jsadump/internal/classlist"
	"github.com/mabhi256/jsadump/internal/dumper"
	"github.com/mabhi256/jsadump/internal/history"
	"github.com/mabhi256/jsadump/internal/jar"
	"github.com/mabhi256/jsadump/internal/logging"
	"github.com/mabhi256/jsadump/internal/valid"
	"github.com/mabhi256/jsadump/utils"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <dir> <originList> <finalList> <eager> <jsa> <agent> <verbose> <commandLine> <cp>",
	Short: "Dump a shared class archive from a profiled class list",
	Long: `Dump prepares the final class list from the one captured during a profiling
run, rewrites the captured JVM command line into a dump command and runs it.

  dir          working directory; the list and archive names are relative to it
  originList   class list written by -XX:DumpLoadedClassList
  finalList    filtered class list handed to the dump
  eager        "true" for EagerAppCDS
  jsa          archive to create
  agent        agent library under <java.home>/lib/<os.arch>, used in eager mode
  verbose      "true" to echo the dump output and the rewritten command
  commandLine  the application's JVM options as one string
  cp           the application classpath

The dump log is written to <dir>/logs/jsa.log.

The arguments are taken verbatim, so commandLine may start with "-". Flags
are not parsed for this command: set global options through JSADUMP_*
environment variables or the config file (for example JSADUMP_JAVA_HOME).`,
	// commandLine is a JVM option string such as "-Xmx2g ..." and must not
	// reach the flag parser.
	DisableFlagParsing: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if isHelpRequest(args) {
			return nil
		}
		return exactArgs(dumper.ArgCount)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if isHelpRequest(args) {
			return cmd.Help()
		}
		cfg, err := dumper.ParseArgs(args)
		if err != nil {
			return err
		}
		opts, err := loadOptions()
		if err != nil {
			return err
		}

		logger, err := logging.New(opts.LogLevel, cfg.Verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runDump(ctx, cfg, opts, logger)
	},
}

func runDump(ctx context.Context, cfg dumper.Config, opts Options, logger *zap.Logger) error {
	chain := valid.DefaultChain(jar.NewInspector(), logger)
	pre := classlist.NewNormalizer(chain, logger, opts.Workers)

	recorder, closeRecorder := openRecorder(cfg.Dir, opts, logger)
	defer closeRecorder()

	o := dumper.New(dumper.Options{
		Preprocessor: pre,
		Runner:       &dumper.ExecRunner{Console: os.Stdout},
		JDK:          opts.jdkLocator(),
		Recorder:     recorder,
		Logger:       logger,
		SplitMode:    opts.SplitMode,
	})

	res, err := o.Run(ctx, cfg)
	if err != nil {
		return err
	}

	stats := pre.Stats()
	fmt.Printf("%s %s\n", utils.GoodStyle.Render("✅ Archive written:"), res.Config.Archive)
	fmt.Printf("   %d classes listed, %d rejected, %d from nested jars, took %s\n",
		stats.Written, stats.Rejected, stats.Extracted, utils.FormatDuration(res.Duration))
	if res.CompressedPointersDisabled {
		fmt.Printf("   %s\n", utils.WarningStyle.Render(
			fmt.Sprintf("compressed oops disabled for max heap %s", res.HeapSize)))
	}
	return nil
}

// openRecorder returns the run ledger, or nil when history is disabled or
// unavailable. The ledger is never created in a directory that does not exist.
func openRecorder(dir string, opts Options, logger *zap.Logger) (dumper.Recorder, func()) {
	noop := func() {}
	if opts.NoHistory {
		return nil, noop
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, noop
	}

	store, err := history.OpenDir(dir)
	if err != nil {
		logger.Warn("run history disabled", zap.Error(err))
		return nil, noop
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close run history", zap.Error(err))
		}
	}
}

func isHelpRequest(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
