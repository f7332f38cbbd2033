package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mabhi256/jsadump/internal/classlist"
	"github.com/mabhi256/jsadump/internal/jar"
	"github.com/mabhi256/jsadump/internal/logging"
	"github.com/mabhi256/jsadump/internal/tui"
	"github.com/mabhi256/jsadump/internal/valid"
	"github.com/mabhi256/jsadump/utils"
)

var inspectPlain bool

var inspectCmd = &cobra.Command{
	Use:               "inspect <classlist>",
	Short:             "Show which classes of a class list would be archived",
	Args:              exactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".lst", ".classlist", ".txt"}),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions()
		if err != nil {
			return err
		}
		// Unreadable jars show up as indeterminate in the view.
		logger, err := logging.New("error", false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		entries, err := classlist.ReadFile(args[0])
		if err != nil {
			return err
		}

		items, err := evaluate(entries, valid.DefaultChain(jar.NewInspector(), logger), opts.Workers)
		if err != nil {
			return err
		}

		title := filepath.Base(args[0])
		if inspectPlain {
			fmt.Print(tui.RenderPlain(title, tui.Summarize(items), 100))
			return nil
		}
		if err := tui.Run(title, items); err != nil {
			return fmt.Errorf("failed to run inspector: %w", err)
		}
		return nil
	},
}

// evaluate runs every entry through the chain with up to workers goroutines.
func evaluate(entries []classlist.Entry, chain *valid.Chain, workers int) ([]tui.Item, error) {
	items := make([]tui.Item, len(entries))
	var g errgroup.Group
	g.SetLimit(max(1, workers))
	for i, e := range entries {
		g.Go(func() error {
			verdict, name := chain.Classify(e)
			items[i] = tui.Item{Entry: e, Verdict: verdict, Validator: name}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectPlain, "plain", false, "print a summary instead of opening the interactive view")
}
