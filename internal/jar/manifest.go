// Package jar reads jar manifests and signature files.
package jar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Attributes is one manifest section. Attribute names are case-insensitive.
type Attributes struct {
	names  []string
	values map[string]string
}

func newAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

func (a *Attributes) set(name, value string) {
	key := strings.ToLower(name)
	if _, ok := a.values[key]; !ok {
		a.names = append(a.names, name)
	}
	a.values[key] = value
}

// Get returns the value of the named attribute.
func (a *Attributes) Get(name string) (string, bool) {
	v, ok := a.values[strings.ToLower(name)]
	return v, ok
}

// Names returns attribute names in file order.
func (a *Attributes) Names() []string {
	return a.names
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	return len(a.names)
}

// Manifest is a parsed META-INF/MANIFEST.MF or signature file (.SF). Both
// share the same format: a main section followed by per-entry sections.
type Manifest struct {
	Main    *Attributes
	Entries map[string]*Attributes
}

// ParseManifest parses the manifest format: "Name: value" lines, continuation
// lines starting with a single space, sections separated by blank lines.
func ParseManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{
		Main:    newAttributes(),
		Entries: make(map[string]*Attributes),
	}

	section := m.Main
	inMain := true
	var name, value string
	lineNo := 0

	flush := func() error {
		if name == "" {
			return nil
		}
		if !inMain && section == nil {
			if !strings.EqualFold(name, "Name") {
				return fmt.Errorf("manifest line %d: section must start with Name, got %q", lineNo, name)
			}
			section = newAttributes()
			m.Entries[value] = section
		}
		section.set(name, value)
		name, value = "", ""
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			if inMain || section != nil {
				inMain = false
				section = nil
			}
			continue
		}

		if strings.HasPrefix(line, " ") {
			if name == "" {
				return nil, fmt.Errorf("manifest line %d: continuation without attribute", lineNo)
			}
			value += line[1:]
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}

		k, v, ok := strings.Cut(line, ":")
		if !ok || k == "" {
			return nil, fmt.Errorf("manifest line %d: invalid header %q", lineNo, line)
		}
		name = k
		value = strings.TrimPrefix(v, " ")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return m, nil
}
