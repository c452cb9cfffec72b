// Package geo reconciles country labels with the names used by a geographic
// boundary dataset.
package geo

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTable is returned when a name table file cannot be used.
var ErrInvalidTable = errors.New("invalid name table")

// Table is an exact-match substitution table. Keys and values are stored in
// NFC so composed and decomposed spellings compare equal.
type Table struct {
	m map[string]string
}

// NewTable builds a table from pairs of dataset label -> boundary name.
func NewTable(pairs map[string]string) *Table {
	t := &Table{m: make(map[string]string, len(pairs))}
	for k, v := range pairs {
		t.Set(k, v)
	}
	return t
}

// DefaultTable seeds the spellings known to differ between the coffee dataset
// and common world boundary files.
func DefaultTable() *Table {
	return NewTable(map[string]string{
		"United States":                "USA",
		"United States (Hawaii)":       "USA",
		"United States (Puerto Rico)":  "Puerto Rico",
		"Tanzania, United Republic Of": "Tanzania",
		"Cote d?Ivoire":                "Ivory Coast",
		"United Kingdom":               "UK",
	})
}

// LoadTable reads a YAML mapping of label to boundary name.
func LoadTable(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read name table: %w", err)
	}
	var pairs map[string]string
	if err := yaml.Unmarshal(b, &pairs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTable, path, err)
	}
	for k, v := range pairs {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s: empty label or name (%q: %q)", ErrInvalidTable, path, k, v)
		}
	}
	return NewTable(pairs), nil
}

// Set adds or replaces one substitution.
func (t *Table) Set(label, name string) {
	if t.m == nil {
		t.m = map[string]string{}
	}
	t.m[norm.NFC.String(label)] = norm.NFC.String(name)
}

// Merge copies every entry of o into t; entries of o win.
func (t *Table) Merge(o *Table) *Table {
	if o == nil {
		return t
	}
	for k, v := range o.m {
		t.Set(k, v)
	}
	return t
}

// Len returns the number of substitutions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.m)
}

// Lookup returns the substitution for label, if any.
func (t *Table) Lookup(label string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.m[norm.NFC.String(label)]
	return v, ok
}

// Normalize returns the substitution for label or label unchanged.
func (t *Table) Normalize(label string) string {
	if v, ok := t.Lookup(label); ok {
		return v
	}
	return label
}

// Entries returns the table sorted by label.
func (t *Table) Entries() [][2]string {
	if t == nil {
		return nil
	}
	out := make([][2]string, 0, len(t.m))
	for k, v := range t.m {
		out = append(out, [2]string{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Boundaries is the set of region names a boundary dataset can shade.
type Boundaries map[string]struct{}

// NewBoundaries builds a set from names.
func NewBoundaries(names ...string) Boundaries {
	b := make(Boundaries, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			b[norm.NFC.String(n)] = struct{}{}
		}
	}
	return b
}

// LoadBoundaries reads one region name per line. Blank lines and lines starting
// with '#' are ignored.
func LoadBoundaries(path string) (Boundaries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open boundaries: %w", err)
	}
	defer f.Close()
	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}
	return NewBoundaries(names...), nil
}

// Has reports whether name is a known region.
func (b Boundaries) Has(name string) bool {
	_, ok := b[norm.NFC.String(name)]
	return ok
}
