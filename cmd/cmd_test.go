package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mabhi256/jsadump/internal/classlist"
	"github.com/mabhi256/jsadump/internal/dumper"
	"github.com/mabhi256/jsadump/internal/history"
	"github.com/mabhi256/jsadump/internal/jar"
	"github.com/mabhi256/jsadump/internal/jar/jartest"
	"github.com/mabhi256/jsadump/internal/valid"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", usageError("bad flag"), ExitUsage},
		{"config", &dumper.RunError{State: dumper.Prepared, Kind: dumper.ErrConfig, Err: errors.New("missing dir")}, ExitConfig},
		{"process", &dumper.RunError{State: dumper.Invoked, Kind: dumper.ErrProcess, Err: errors.New("exit 1")}, ExitFailure},
		{"plain", errors.New("boom"), ExitFailure},
		{"wrapped usage", fmt.Errorf("dump: %w", usageError("x")), ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestArgValidators(t *testing.T) {
	if err := exactArgs(2)(versionCmd, []string{"a"}); !errors.Is(err, dumper.ErrUsage) {
		t.Errorf("exactArgs: got %v, want usage error", err)
	}
	if err := exactArgs(1)(versionCmd, []string{"a"}); err != nil {
		t.Errorf("exactArgs: %v", err)
	}
	if err := minArgs(1)(versionCmd, nil); !errors.Is(err, dumper.ErrUsage) {
		t.Errorf("minArgs: got %v, want usage error", err)
	}
	if err := minArgs(1)(versionCmd, []string{"a", "b"}); err != nil {
		t.Errorf("minArgs: %v", err)
	}
}

func TestVerifyJars(t *testing.T) {
	dir := t.TempDir()
	signed := jartest.Signed(t, filepath.Join(dir, "signed.jar"))
	unsigned := jartest.Unsigned(t, filepath.Join(dir, "plain.jar"))
	missing := filepath.Join(dir, "missing.jar")

	v := valid.NewSignedJarValidator(jar.NewInspector(), zap.NewNop())
	var out bytes.Buffer
	n := verifyJars(&out, v, []string{signed, unsigned, missing})

	if n != 1 {
		t.Errorf("signed count = %d, want 1", n)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	for i, want := range []string{"[signed] " + signed, "[unsigned] " + unsigned, "[unsigned] " + missing} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	dir := t.TempDir()
	signed := jartest.Signed(t, filepath.Join(dir, "signed.jar"))
	unsigned := jartest.Unsigned(t, filepath.Join(dir, "plain.jar"))

	var entries []classlist.Entry
	for _, line := range []string{
		"java/lang/Object id: 1",
		"com/a/A id: 2 super: 1 source: " + signed,
		"com/b/B id: 3 super: 1 source: " + unsigned,
	} {
		e, ok := classlist.ParseLine(line)
		if !ok {
			t.Fatalf("ParseLine(%q) failed", line)
		}
		entries = append(entries, e)
	}

	items, err := evaluate(entries, valid.DefaultChain(jar.NewInspector(), zap.NewNop()), 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []valid.Verdict{valid.Valid, valid.Invalid, valid.Valid}
	for i, it := range items {
		if it.Entry.Name != entries[i].Name {
			t.Errorf("item %d is %s, want %s", i, it.Entry.Name, entries[i].Name)
		}
		if it.Verdict != want[i] {
			t.Errorf("%s: verdict %v, want %v", it.Entry.Name, it.Verdict, want[i])
		}
	}
	if items[1].Validator == "" {
		t.Error("rejected item has no validator name")
	}
}

func TestPrintRuns(t *testing.T) {
	var out bytes.Buffer
	printRuns(&out, nil)
	if !strings.Contains(out.String(), "no recorded runs") {
		t.Errorf("empty history: %q", out.String())
	}

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	out.Reset()
	printRuns(&out, []history.Run{
		{ID: "0123456789abcdef", StartedAt: start, FinishedAt: start.Add(90 * time.Second), State: "done", Archive: "/w/app.jsa"},
		{ID: "fedcba98", StartedAt: start, FinishedAt: start.Add(time.Second), State: "failed", Err: "cmd: exit status 1"},
		{ID: "aaaa", StartedAt: start, State: "uninitialized"},
	})
	got := out.String()
	for _, want := range []string{"01234567 ", "1m 30s", "/w/app.jsa", "cmd: exit status 1", "unfinished", "1 successful, mean 1m 30s"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "89abcdef") {
		t.Errorf("id not shortened:\n%s", got)
	}
}

func TestCompletionTargets(t *testing.T) {
	targets := completionTargets("/home/u")
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		tg, ok := targets[shell]
		if !ok {
			t.Fatalf("no target for %s", shell)
		}
		if !strings.HasPrefix(tg.path(), "/home/u") {
			t.Errorf("%s: path %s outside home", shell, tg.path())
		}
		if !strings.Contains(tg.file, "jsadump") {
			t.Errorf("%s: file %s", shell, tg.file)
		}
		var buf bytes.Buffer
		if err := tg.generate(rootCmd, &buf); err != nil || buf.Len() == 0 {
			t.Errorf("%s: generate: %v (%d bytes)", shell, err, buf.Len())
		}
	}
}

func TestDetectShell(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/zsh")
	if got := detectShell(); got != "zsh" && got != "powershell" {
		t.Errorf("detectShell = %q", got)
	}
}
