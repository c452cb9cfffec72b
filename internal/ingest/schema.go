package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
)

// ErrMissingColumn is wrapped by ColumnError.
var ErrMissingColumn = errors.New("required column missing")

// ColumnError reports a required column that the header does not contain.
type ColumnError struct {
	Field     string
	Column    string
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s column %q not found (available: %s)", e.Field, e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnError) Unwrap() error { return ErrMissingColumn }

// Schema names the input columns for each logical field.
type Schema struct {
	Score            string            `mapstructure:"score" yaml:"score"`
	Country          string            `mapstructure:"country" yaml:"country"`
	ProcessingMethod string            `mapstructure:"processing_method" yaml:"processing_method"`
	Variety          string            `mapstructure:"variety" yaml:"variety"`
	Sensory          map[string]string `mapstructure:"sensory" yaml:"sensory,omitempty"`
}

// DefaultSchema matches the headers of the public coffee-quality dataset.
func DefaultSchema() Schema {
	return Schema{
		Score:            "total_cup_points",
		Country:          "country_of_origin",
		ProcessingMethod: "processing_method",
		Variety:          "variety",
	}
}

// sensoryColumn returns the configured column for a, defaulting to its name.
func (s Schema) sensoryColumn(a coffee.Attribute) string {
	if s.Sensory != nil {
		if c, ok := s.Sensory[a.Name()]; ok && strings.TrimSpace(c) != "" {
			return c
		}
	}
	return a.Name()
}

// withDefaults fills empty fields from DefaultSchema.
func (s Schema) withDefaults() Schema {
	d := DefaultSchema()
	if strings.TrimSpace(s.Score) == "" {
		s.Score = d.Score
	}
	if strings.TrimSpace(s.Country) == "" {
		s.Country = d.Country
	}
	if strings.TrimSpace(s.ProcessingMethod) == "" {
		s.ProcessingMethod = d.ProcessingMethod
	}
	if strings.TrimSpace(s.Variety) == "" {
		s.Variety = d.Variety
	}
	return s
}

// columnIndex resolves schema columns against a header row.
type columnIndex struct {
	score, country, method, variety int
	sensory                         [coffee.AttributeCount]int
}

func headerKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// resolve maps schema fields to header positions. Missing required columns
// return a *ColumnError; missing optional columns resolve to -1 and are
// reported through warnings.
func (s Schema) resolve(header []string) (columnIndex, []string, error) {
	s = s.withDefaults()
	pos := make(map[string]int, len(header))
	avail := make([]string, 0, len(header))
	for i, h := range header {
		k := headerKey(h)
		if _, dup := pos[k]; !dup {
			pos[k] = i
		}
		avail = append(avail, strings.TrimSpace(h))
	}
	lookup := func(name string) int {
		if i, ok := pos[headerKey(name)]; ok {
			return i
		}
		return -1
	}

	var idx columnIndex
	var warnings []string
	idx.score = lookup(s.Score)
	if idx.score < 0 {
		return idx, nil, &ColumnError{Field: "score", Column: s.Score, Available: avail}
	}
	idx.country = lookup(s.Country)
	if idx.country < 0 {
		return idx, nil, &ColumnError{Field: "country", Column: s.Country, Available: avail}
	}
	idx.method = lookup(s.ProcessingMethod)
	if idx.method < 0 {
		warnings = append(warnings, fmt.Sprintf("processing method column %q not found; every sample will be Unknown", s.ProcessingMethod))
	}
	idx.variety = lookup(s.Variety)
	if idx.variety < 0 {
		warnings = append(warnings, fmt.Sprintf("variety column %q not found", s.Variety))
	}
	for _, a := range coffee.AllAttributes() {
		col := s.sensoryColumn(a)
		idx.sensory[a] = lookup(col)
		if idx.sensory[a] < 0 {
			warnings = append(warnings, fmt.Sprintf("sensory column %q not found; %s will be absent", col, a.Label()))
		}
	}
	return idx, warnings, nil
}
