// Package classlist reads class lists produced by -XX:DumpLoadedClassList
// and turns them into the final list handed to the dump process.
package classlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const sourceKey = " source:"

// Entry is one class of a class list.
//
// A line looks like
//
//	com/example/App id: 42 super: 1 source: /opt/app/lib/app.jar
//
// Only the class name and the source are interpreted; everything else is
// written back untouched.
type Entry struct {
	// Name is the class name, the first field of the line.
	Name string

	// Source is the path of the container the class was loaded from, or ""
	// when the class has no distinguishable container.
	Source string

	// Nested is the path inside Source of a jar packed in a fat jar, or "".
	Nested string

	line   string
	srcAt  int // offset of the source value in line, 0 when absent
	rawSrc string
}

// ParseLine parses one class list line. It reports false for blank lines and
// comments.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Entry{}, false
	}

	e := Entry{
		Name: strings.Fields(trimmed)[0],
		line: line,
	}

	if idx := strings.Index(line, sourceKey); idx >= 0 {
		start := idx + len(sourceKey)
		for start < len(line) && line[start] == ' ' {
			start++
		}
		raw := strings.TrimSpace(line[start:])
		if raw != "" {
			e.srcAt = start
			e.rawSrc = raw
			e.Source, e.Nested = splitSource(raw)
		}
	}

	return e, true
}

// Line returns the class list line for e, with a rewritten source if
// WithSource was used.
func (e Entry) Line() string {
	if e.srcAt == 0 {
		if e.line == "" {
			return e.Name
		}
		return e.line
	}
	return e.line[:e.srcAt] + e.rawSrc
}

// WithSource returns a copy of e loaded from path instead.
func (e Entry) WithSource(path string) Entry {
	e.Source = path
	e.Nested = ""
	if e.srcAt == 0 {
		if e.line == "" {
			e.line = e.Name
		}
		e.line += sourceKey + " "
		e.srcAt = len(e.line)
	}
	e.rawSrc = path
	return e
}

func (e Entry) key() string {
	return e.Name + "\x00" + e.Source + "\x00" + e.Nested
}

// splitSource reduces a source URL to a filesystem path and, for fat jars,
// the path of the nested jar inside it.
//
//	/a/app.jar                          -> /a/app.jar, ""
//	file:/a/app.jar                     -> /a/app.jar, ""
//	jar:file:/a/app.jar!/               -> /a/app.jar, ""
//	jar:file:/a/app.jar!/BOOT-INF/lib/x.jar!/ -> /a/app.jar, BOOT-INF/lib/x.jar
//
// Sources with any other scheme (jrt:/java.base) are returned unchanged.
func splitSource(raw string) (string, string) {
	s := strings.TrimPrefix(raw, "jar:")
	switch {
	case strings.HasPrefix(s, "file://"):
		s = strings.TrimPrefix(s, "file://")
	case strings.HasPrefix(s, "file:"):
		s = strings.TrimPrefix(s, "file:")
	case s != raw:
		return raw, ""
	}

	s = strings.TrimSuffix(s, "!/")
	outer, inner, found := strings.Cut(s, "!/")
	if !found {
		return s, ""
	}
	return outer, strings.TrimPrefix(inner, "/")
}

// Read parses all entries from r.
func Read(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if e, ok := ParseLine(scanner.Text()); ok {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class list: %w", err)
	}
	return entries, nil
}

// ReadFile parses the class list at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class list: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write writes one line per entry.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.Line() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
