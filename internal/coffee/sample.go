// Package coffee defines the cupping records shared by ingest, pipeline and render.
package coffee

import (
	"fmt"
	"math"
	"strings"
)

// Attribute identifies one sensory score on a cupping form.
type Attribute int

const (
	Aroma Attribute = iota
	Flavor
	Aftertaste
	Acidity
	Body
	Balance
	Uniformity
	CleanCup
	Sweetness

	// AttributeCount is the number of sensory attributes carried by a Sample.
	AttributeCount = int(Sweetness) + 1
)

var attributeNames = [AttributeCount]string{
	"aroma", "flavor", "aftertaste", "acidity", "body", "balance", "uniformity", "clean_cup", "sweetness",
}

var attributeLabels = [AttributeCount]string{
	"Aroma", "Flavor", "Aftertaste", "Acidity", "Body", "Balance", "Uniformity", "Clean Cup", "Sweetness",
}

// Name returns the snake_case column name of the attribute.
func (a Attribute) Name() string {
	if a < 0 || int(a) >= AttributeCount {
		return fmt.Sprintf("attribute(%d)", int(a))
	}
	return attributeNames[a]
}

// Label returns a display label suitable for chart axes.
func (a Attribute) Label() string {
	if a < 0 || int(a) >= AttributeCount {
		return a.Name()
	}
	return attributeLabels[a]
}

func (a Attribute) String() string { return a.Name() }

// AllAttributes returns every attribute in form order.
func AllAttributes() []Attribute {
	out := make([]Attribute, AttributeCount)
	for i := range out {
		out[i] = Attribute(i)
	}
	return out
}

// ParseAttribute resolves a name or label (case-insensitive, spaces or underscores).
func ParseAttribute(s string) (Attribute, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for i, n := range attributeNames {
		if n == key {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sensory attribute: %q", s)
}

// Sample is one raw cupping record. Absent numeric values are NaN and absent
// strings are empty.
type Sample struct {
	Score            float64
	CountryOfOrigin  string
	ProcessingMethod string
	Variety          string
	Sensory          [AttributeCount]float64
}

// NewSample returns a Sample with every numeric field absent.
func NewSample() Sample {
	s := Sample{Score: math.NaN()}
	for i := range s.Sensory {
		s.Sensory[i] = math.NaN()
	}
	return s
}

// HasScore reports whether the score is present.
func (s Sample) HasScore() bool { return !math.IsNaN(s.Score) }

// HasCountry reports whether the country of origin is present.
func (s Sample) HasCountry() bool { return strings.TrimSpace(s.CountryOfOrigin) != "" }

// Attribute returns the value of a sensory attribute and whether it is present.
func (s Sample) Attribute(a Attribute) (float64, bool) {
	if a < 0 || int(a) >= AttributeCount {
		return math.NaN(), false
	}
	v := s.Sensory[a]
	return v, !math.IsNaN(v)
}
