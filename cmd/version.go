package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at link time.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  exactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jsadump version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
