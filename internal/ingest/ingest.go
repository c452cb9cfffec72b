// Package ingest loads cupping datasets from CSV, TSV and XLSX files into
// coffee.Sample records.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
)

// ErrUnsupportedFormat is returned when no reader accepts the file extension.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Options controls how a dataset file is read.
type Options struct {
	Schema Schema
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen from the extension (',' or '\t').
	Delimiter rune
	// DecimalSeparator and ThousandsSeparator are auto-detected per cell when 0.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection. SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns options for the public coffee-quality dataset.
func DefaultOptions() Options {
	return Options{Schema: DefaultSchema(), SheetIndex: 1}
}

// Dataset is a loaded table of samples.
type Dataset struct {
	Name     string
	Rows     int
	Samples  []coffee.Sample
	Warnings []string
}

// Reader turns a file into a header row and data rows. Absent cells are "".
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (header []string, rows [][]string, err error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// Load reads path with the first registered reader that accepts it.
func Load(path string, opt Options) (*Dataset, error) {
	for _, r := range registry {
		if !r.CanRead(path) {
			continue
		}
		header, rows, err := r.Read(path, opt)
		if err != nil {
			return nil, err
		}
		ds, err := FromRows(header, rows, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		ds.Name = filepath.Base(path)
		return ds, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Supported reports whether some registered reader accepts path.
func Supported(path string) bool {
	for _, r := range registry {
		if r.CanRead(path) {
			return true
		}
	}
	return false
}

// FromRows converts an in-memory table into a Dataset.
func FromRows(header []string, rows [][]string, opt Options) (*Dataset, error) {
	if len(header) == 0 {
		return nil, errors.New("dataset has no header row")
	}
	idx, warnings, err := opt.Schema.resolve(header)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Warnings: warnings}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	badNumbers := map[string]int{}
	cell := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	number := func(rec []string, i int, col string) float64 {
		v, present, ok := parseNumber(cell(rec, i), opt)
		if present && !ok {
			badNumbers[col]++
		}
		return v
	}

	for _, rec := range rows {
		if ds.Rows >= maxRows {
			break
		}
		ds.Rows++
		s := coffee.NewSample()
		s.Score = number(rec, idx.score, header[idx.score])
		s.CountryOfOrigin = cleanText(cell(rec, idx.country))
		s.ProcessingMethod = cleanText(cell(rec, idx.method))
		s.Variety = cleanText(cell(rec, idx.variety))
		for a, col := range idx.sensory {
			if col < 0 {
				continue
			}
			s.Sensory[a] = number(rec, col, header[col])
		}
		ds.Samples = append(ds.Samples, s)
	}
	if ds.Rows < len(rows) {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("read only %d/%d rows due to MaxRows", ds.Rows, len(rows)))
	}
	for _, col := range header {
		if n := badNumbers[col]; n > 0 {
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d non-numeric values in %q treated as absent", n, strings.TrimSpace(col)))
		}
	}
	return ds, nil
}
