package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInPath() {
			printPathInstructions(cmd.OutOrStdout())
			return nil
		}

		shell := detectShell()
		if !isShellSupported() {
			return fmt.Errorf("shell completion not supported for %s (supported: bash, zsh, fish, powershell)", shell)
		}

		if completionsExist() {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Already configured!")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "📦 Installing completions...")
		if err := installCompletions(cmd.Root()); err != nil {
			return fmt.Errorf("failed to install completions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Done! Restart your shell to enable tab completion.")
		return nil
	},
}

// completionTarget is where one shell keeps the generated script.
type completionTarget struct {
	dir      string
	file     string
	generate func(root *cobra.Command, w io.Writer) error
	activate string
}

func (t completionTarget) path() string {
	return filepath.Join(t.dir, t.file)
}

func completionTargets(home string) map[string]completionTarget {
	bashDir := filepath.Join(home, ".local/share/bash-completion/completions")
	zshDir := filepath.Join(home, ".zsh/completions")
	return map[string]completionTarget{
		"bash": {
			dir:      bashDir,
			file:     "jsadump",
			generate: (*cobra.Command).GenBashCompletion,
			activate: "source " + filepath.Join(bashDir, "jsadump"),
		},
		"zsh": {
			dir:      zshDir,
			file:     "_jsadump",
			generate: (*cobra.Command).GenZshCompletion,
			activate: fmt.Sprintf("fpath=(%s $fpath) && autoload -U compinit && compinit", zshDir),
		},
		"fish": {
			dir:  filepath.Join(home, ".config/fish/completions"),
			file: "jsadump.fish",
			generate: func(root *cobra.Command, w io.Writer) error {
				return root.GenFishCompletion(w, true)
			},
			activate: "complete --do-complete=jsadump",
		},
		"powershell": {
			dir:      home,
			file:     "jsadump_completion.ps1",
			generate: (*cobra.Command).GenPowerShellCompletionWithDesc,
			activate: ". " + filepath.Join(home, "jsadump_completion.ps1"),
		},
	}
}

func currentTarget() (completionTarget, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return completionTarget{}, false
	}
	t, ok := completionTargets(home)[detectShell()]
	return t, ok
}

func completionsExist() bool {
	t, ok := currentTarget()
	if !ok {
		return false
	}
	_, err := os.Stat(t.path())
	return err == nil
}

func isShellSupported() bool {
	_, ok := completionTargets("")[detectShell()]
	return ok
}

func detectShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return "bash"
}

func installCompletions(root *cobra.Command) error {
	t, ok := currentTarget()
	if !ok {
		return fmt.Errorf("unsupported shell: %s", detectShell())
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(t.path())
	if err != nil {
		return err
	}
	defer f.Close()

	if err := t.generate(root, f); err != nil {
		return err
	}

	fmt.Println("🔄 Run this command to enable completions now:")
	fmt.Printf("   %s\n", t.activate)
	return nil
}

func isInPath() bool {
	execPath, err := os.Executable()
	if err != nil {
		return false
	}
	dirs := strings.Split(os.Getenv("PATH"), string(os.PathListSeparator))
	return slices.Contains(dirs, filepath.Dir(execPath))
}

func printPathInstructions(w io.Writer) {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	fmt.Fprintf(w, "❌ jsadump not in PATH. Binary location: %s\n\n", execPath)
	if runtime.GOOS == "windows" {
		fmt.Fprintf(w, "Add to PATH: %s\n", execDir)
		return
	}
	fmt.Fprintf(w, "Add to shell profile: export PATH=\"%s:$PATH\"\n", execDir)
	fmt.Fprintln(w, "Or copy to: /usr/local/bin")
}
