package classlist

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line   string
		name   string
		source string
		nested string
	}{
		{"java/lang/Object", "java/lang/Object", "", ""},
		{"java/lang/Object id: 1", "java/lang/Object", "", ""},
		{"com/a/App id: 7 super: 1 source: /opt/app/a.jar", "com/a/App", "/opt/app/a.jar", ""},
		{"com/a/App id: 7 source: file:/opt/app/a.jar", "com/a/App", "/opt/app/a.jar", ""},
		{"com/a/App id: 7 source: file:///opt/app/a.jar", "com/a/App", "/opt/app/a.jar", ""},
		{"com/a/App id: 7 source: jar:file:/opt/app/a.jar!/", "com/a/App", "/opt/app/a.jar", ""},
		{"com/a/Lib id: 8 source: jar:file:/opt/app.jar!/BOOT-INF/lib/lib.jar!/", "com/a/Lib", "/opt/app.jar", "BOOT-INF/lib/lib.jar"},
		{"com/a/Lib id: 8 source: /opt/app.jar!/BOOT-INF/lib/lib.jar", "com/a/Lib", "/opt/app.jar", "BOOT-INF/lib/lib.jar"},
		{"java/util/List id: 2 source: jrt:/java.base", "java/util/List", "jrt:/java.base", ""},
		{"com/a/Dir id: 9 source: /opt/app/classes/", "com/a/Dir", "/opt/app/classes/", ""},
		{"com/a/Space id: 9 source: /opt/my app/a.jar\r", "com/a/Space", "/opt/my app/a.jar", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			e, ok := ParseLine(tt.line)
			if !ok {
				t.Fatal("expected an entry")
			}
			if e.Name != tt.name || e.Source != tt.source || e.Nested != tt.nested {
				t.Errorf("got (%q, %q, %q), want (%q, %q, %q)", e.Name, e.Source, e.Nested, tt.name, tt.source, tt.nested)
			}
		})
	}
}

func TestParseLine_Skipped(t *testing.T) {
	for _, line := range []string{"", "   ", "# comment", "  # indented comment"} {
		if _, ok := ParseLine(line); ok {
			t.Errorf("ParseLine(%q) should be skipped", line)
		}
	}
}

func TestEntryLine_RoundTrip(t *testing.T) {
	line := "com/a/App id: 7 super: 1 source: jar:file:/opt/app/a.jar!/"
	e, _ := ParseLine(line)
	if e.Line() != line {
		t.Errorf("Line() = %q, want original %q", e.Line(), line)
	}

	moved := e.WithSource("/tmp/x/a.jar")
	if got := moved.Line(); got != "com/a/App id: 7 super: 1 source: /tmp/x/a.jar" {
		t.Errorf("rewritten line = %q", got)
	}
	if e.Line() != line {
		t.Error("WithSource must not modify the receiver")
	}
}

func TestEntryWithSource_NoPreviousSource(t *testing.T) {
	e, _ := ParseLine("com/a/App id: 7")
	if got := e.WithSource("/x.jar").Line(); got != "com/a/App id: 7 source: /x.jar" {
		t.Errorf("Line() = %q", got)
	}
	if got := (Entry{Name: "com/a/B"}).Line(); got != "com/a/B" {
		t.Errorf("bare entry Line() = %q", got)
	}
}

func TestReadWrite(t *testing.T) {
	input := strings.Join([]string{
		"# header",
		"java/lang/Object id: 1",
		"",
		"com/a/App id: 2 source: /a.jar",
	}, "\n")

	entries, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "java/lang/Object id: 1\ncom/a/App id: 2 source: /a.jar\n"
	if buf.String() != want {
		t.Errorf("Write = %q, want %q", buf.String(), want)
	}
}
