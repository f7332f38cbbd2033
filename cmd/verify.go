package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mabhi256/jsadump/internal/jar"
	"github.com/mabhi256/jsadump/internal/logging"
	"github.com/mabhi256/jsadump/internal/valid"
	"github.com/mabhi256/jsadump/utils"
)

var failOnSigned bool

var verifyCmd = &cobra.Command{
	Use:               "verify <jar>...",
	Short:             "Report whether jars are signed",
	Long:              `Verify prints [signed], [unsigned] or [unknown] for every jar, using the same check that excludes classes of signed jars from an archive.`,
	Args:              minArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".jar"}),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions()
		if err != nil {
			return err
		}
		logger, err := logging.New(opts.LogLevel, false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		v := valid.NewSignedJarValidator(jar.NewInspector(), logger)
		signed := verifyJars(os.Stdout, v, args)
		if failOnSigned && signed > 0 {
			return fmt.Errorf("%d of %d jars are signed", signed, len(args))
		}
		return nil
	},
}

// signatureLabel names a signed-jar verdict for display.
func signatureLabel(v valid.Verdict) string {
	switch v {
	case valid.Invalid:
		return "signed"
	case valid.Indeterminate:
		return "unknown"
	default:
		return "unsigned"
	}
}

func verifyJars(w io.Writer, v *valid.SignedJarValidator, paths []string) int {
	signed := 0
	for _, p := range paths {
		verdict := v.CheckPath(p)
		if verdict == valid.Invalid {
			signed++
		}
		label := signatureLabel(verdict)
		fmt.Fprintf(w, "%s %s\n", utils.VerdictStyle(label).Render("["+label+"]"), p)
	}
	return signed
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&failOnSigned, "fail-on-signed", false, "exit with status 1 if any jar is signed")
}
