package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mabhi256/jsadump/internal/history"
	"github.com/mabhi256/jsadump/utils"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <dir>",
	Short: "List previous dump runs of a working directory",
	Args:  exactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 1 {
			return usageError("--limit must be at least 1, got %d", historyLimit)
		}
		dir := args[0]
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return usageError("%s is not a directory", dir)
		}

		runs, err := listRuns(cmd.Context(), dir, historyLimit)
		if err != nil {
			return err
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

// listRuns reads the ledger of dir without creating it. A directory that
// never recorded a run has no ledger and lists nothing.
func listRuns(ctx context.Context, dir string, limit int) ([]history.Run, error) {
	if _, err := os.Stat(history.Path(dir)); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	store, err := history.OpenDir(dir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	runs, err := store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read run history: %w", err)
	}
	return runs, nil
}

func printRuns(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, utils.MutedStyle.Render("no recorded runs"))
		return
	}

	fmt.Fprintln(w, utils.HeaderStyle.Render(fmt.Sprintf("%-8s  %-19s  %-9s  %-14s  %s",
		"ID", "STARTED", "TOOK", "STATE", "ARCHIVE")))
	var durations []time.Duration
	for _, r := range runs {
		took := "-"
		if d := r.Duration(); d > 0 {
			took = utils.FormatDuration(d)
			if r.Err == "" {
				durations = append(durations, d)
			}
		}
		detail := r.Archive
		if r.Err != "" {
			detail = r.Err
		}
		state := r.State
		if r.FinishedAt.IsZero() {
			state = "unfinished"
		}
		fmt.Fprintf(w, "%-8s  %-19s  %-9s  %s  %s\n",
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			took,
			utils.VerdictStyle(state).Width(14).Render(state),
			utils.TruncateLeft(detail, 80))
	}

	if len(durations) > 0 {
		mean, sd := utils.DurationSpread(durations)
		fmt.Fprintln(w, utils.MutedStyle.Render(fmt.Sprintf("%d successful, mean %s ± %s",
			len(durations), utils.FormatDuration(mean), utils.FormatDuration(sd))))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
}
