package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mabhi256/jsadump/internal/jdk"
	"github.com/mabhi256/jsadump/internal/jvmargs"
)

const envPrefix = "JSADUMP"

// Options are the settings shared by all commands, merged from flags,
// JSADUMP_* environment variables and the config file, in that order.
type Options struct {
	LogLevel  string
	JavaHome  string
	OSArch    string
	SplitMode jvmargs.SplitMode
	NoHistory bool
	Workers   int
}

var cfgFile string

func registerGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.SetNormalizeFunc(dashedNames)

	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.jsadump.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("java-home", "", "JDK used for the dump (default $JAVA_HOME, then java on PATH)")
	flags.String("os-arch", "", "JVM os.arch used to locate the agent library (default derived from the platform)")
	flags.String("split-mode", string(jvmargs.SplitPlain), "how the runtime command line is tokenized: plain or shell")
	flags.Bool("no-history", false, "do not record the run in logs/history.db")
	flags.Int("workers", runtime.NumCPU(), "concurrent class list validations")

	for _, name := range []string{"log-level", "java-home", "os-arch", "split-mode", "no-history", "workers"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	cmd.RegisterFlagCompletionFunc("split-mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(jvmargs.SplitPlain), string(jvmargs.SplitShell)}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.RegisterFlagCompletionFunc("log-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})
}

// dashedNames lets --java_home and --java-home mean the same flag.
func dashedNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".jsadump")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to read config %s: %v\n", cfgFile, err)
		}
	}
}

// loadOptions reads the merged settings. An invalid value is a usage error.
func loadOptions() (Options, error) {
	mode, err := jvmargs.ParseSplitMode(viper.GetString("split-mode"))
	if err != nil {
		return Options{}, usageError("%v", err)
	}

	workers := viper.GetInt("workers")
	if workers < 1 {
		return Options{}, usageError("--workers must be at least 1, got %d", workers)
	}

	return Options{
		LogLevel:  viper.GetString("log-level"),
		JavaHome:  viper.GetString("java-home"),
		OSArch:    viper.GetString("os-arch"),
		SplitMode: mode,
		NoHistory: viper.GetBool("no-history"),
		Workers:   workers,
	}, nil
}

func (o Options) jdkLocator() jdk.Locator {
	return jdk.Locator{JavaHome: o.JavaHome, Arch: o.OSArch}
}
