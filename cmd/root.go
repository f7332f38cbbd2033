package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mabhi256/jsadump/internal/dumper"
	"github.com/mabhi256/jsadump/utils"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitConfig  = 3
)

// Commands that run unattended never print first-run setup output.
var skipSetup = []string{"install", "version", "help", "dump", "completion", cobra.ShellCompRequestCmd}

var rootCmd = &cobra.Command{
	Use:   "jsadump",
	Short: "Build JVM shared class archives from profiled class lists",
	Long: `jsadump turns a class list captured with -XX:DumpLoadedClassList into a
shared class-data archive (AppCDS / EagerAppCDS). It filters classes that must
not be archived, rewrites the application's JVM options for the dump run and
cleans up after itself.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if slices.Contains(skipSetup, cmd.Name()) {
			return
		}

		if !isShellSupported() {
			return // Skip auto-setup for unsupported shells
		}

		if !completionsExist() {
			fmt.Println("🔧 First run detected, setting up jsadump...")
			if installCompletions(cmd.Root()) == nil {
				fmt.Println("✅ Shell completions installed")
				fmt.Println("💡 Restart your shell to enable tab completion")
			} else {
				fmt.Println("⚠️  Auto-setup failed. Run 'jsadump install' to try again.")
			}
		}
	},
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, utils.CriticalStyle.Render("❌ "+err.Error()))
	}
	os.Exit(ExitCode(err))
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, dumper.ErrUsage):
		return ExitUsage
	case errors.Is(err, dumper.ErrConfig):
		return ExitConfig
	default:
		return ExitFailure
	}
}

// usageError marks err as a command line mistake.
func usageError(format string, a ...any) error {
	return fmt.Errorf("%w: %s", dumper.ErrUsage, fmt.Sprintf(format, a...))
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s takes %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs reporting a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError("%s takes at least %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	registerGlobalFlags(rootCmd)
	rootCmd.AddCommand(installCmd)
}
