package jvmargs

import (
	"errors"
	"slices"
	"testing"
)

func TestRewrite_Assembly(t *testing.T) {
	cmd, err := Rewrite([]string{"-Xmx2g", "-Dapp=1", "-XX:+UseG1GC"}, DumpOptions{
		Java:          "/jdk/bin/java",
		ClassListPath: "/work/final.lst",
		ArchivePath:   "/work/app.jsa",
		Classpath:     "/app/a.jar:/app/b.jar",
	})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	want := []string{
		"/jdk/bin/java",
		"-Dapp=1",
		"-XX:+UseG1GC",
		"-XX:+UnlockDiagnosticVMOptions",
		"-Xshare:dump",
		"-XX:SharedClassListFile=/work/final.lst",
		"-XX:SharedArchiveFile=/work/app.jsa",
		"-XX:SharedReadWriteSize=512M",
		"-XX:+UnlockExperimentalVMOptions",
		"-XX:+EagerAppCDSLegacyVerisonSupport",
		"-XX:+DisableAttachMechanism",
		"-cp",
		"/app/a.jar:/app/b.jar",
	}
	if !slices.Equal(cmd.Argv, want) {
		t.Errorf("argv mismatch\n got: %v\nwant: %v", cmd.Argv, want)
	}
}

func TestRewrite_Eager(t *testing.T) {
	cmd, err := Rewrite(nil, DumpOptions{
		Java:          "/jdk/bin/java",
		ClassListPath: "/w/l",
		ArchivePath:   "/w/a.jsa",
		Classpath:     "cp",
		Eager:         true,
		AgentPath:     "/jdk/lib/amd64/libagent.jar",
	})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	i := slices.Index(cmd.Argv, "-XX:+EagerAppCDS")
	if i < 0 {
		t.Fatalf("missing -XX:+EagerAppCDS in %v", cmd.Argv)
	}
	if cmd.Argv[i+1] != "-Xbootclasspath/a:/jdk/lib/amd64/libagent.jar" {
		t.Errorf("unexpected boot classpath token %q", cmd.Argv[i+1])
	}
	n := len(cmd.Argv)
	if cmd.Argv[n-2] != "-cp" || cmd.Argv[n-1] != "cp" {
		t.Errorf("classpath must come last: %v", cmd.Argv)
	}
}

func TestRewrite_NotEagerHasNoAgent(t *testing.T) {
	cmd, err := Rewrite(nil, DumpOptions{Java: "java", AgentPath: "/x/agent.jar"})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if slices.Contains(cmd.Argv, "-XX:+EagerAppCDS") || hasPrefixed(cmd.Argv, "-Xbootclasspath/a:") {
		t.Errorf("eager tokens present without eager mode: %v", cmd.Argv)
	}
}

func TestRewrite_LargeHeapScenario(t *testing.T) {
	cmd, err := Rewrite([]string{"-Xmx40g", "-javaagent:foo.jar", "-Xshare:off"}, DumpOptions{Java: "java", Classpath: "cp"})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if slices.Contains(cmd.Argv, "-javaagent:foo.jar") || slices.Contains(cmd.Argv, "-Xshare:off") {
		t.Errorf("disallowed token survived: %v", cmd.Argv)
	}
	if !slices.Contains(cmd.Argv, DisableCompressedOops) || !slices.Contains(cmd.Argv, DisableCompressedClassPointers) {
		t.Errorf("missing compressed pointer flags: %v", cmd.Argv)
	}
	if hasPrefixed(cmd.Argv, "-Xmx") {
		t.Errorf("residual -Xmx: %v", cmd.Argv)
	}
}

func TestRewrite_ParseErrorAborts(t *testing.T) {
	cmd, err := Rewrite([]string{"-Xmx12q"}, DumpOptions{Java: "java"})
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if cmd != nil {
		t.Error("no partial command expected on parse error")
	}
}

func TestRewrite_RequiresAgentInEagerMode(t *testing.T) {
	if _, err := Rewrite(nil, DumpOptions{Java: "java", Eager: true}); err == nil {
		t.Fatal("expected error for eager mode without agent")
	}
}
