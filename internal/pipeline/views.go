package pipeline

import (
	"math"
	"sort"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/geo"
)

// CategoryCount is one bar of a frequency chart.
type CategoryCount struct {
	Key   string
	Count int
}

// CountBy tallies key(s) over samples, ranked by count descending then key ascending.
func CountBy(samples []CleanedSample, key func(CleanedSample) string) []CategoryCount {
	counts := map[string]int{}
	for _, s := range samples {
		counts[key(s)]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, CategoryCount{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Key < out[j].Key
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// CountByCountry counts samples per country of origin.
func CountByCountry(samples []CleanedSample) []CategoryCount {
	return CountBy(samples, func(s CleanedSample) string { return s.CountryOfOrigin })
}

// CountByMethod counts samples per normalized processing method.
func CountByMethod(samples []CleanedSample) []CategoryCount {
	return CountBy(samples, func(s CleanedSample) string { return s.Method })
}

// CountByQuality counts samples per band, highest band first. Empty bands are
// included with a zero count.
func CountByQuality(samples []CleanedSample) []CategoryCount {
	counts := map[coffee.Quality]int{}
	for _, s := range samples {
		counts[s.Quality]++
	}
	qs := coffee.Qualities()
	out := make([]CategoryCount, len(qs))
	for i, q := range qs {
		out[i] = CategoryCount{Key: q.String(), Count: counts[q]}
	}
	return out
}

// Observation is one (group key, score) pair for a jitter or strip plot.
type Observation struct {
	Key   string
	Value float64
}

// LongForm lists the score of every cleaned sample whose country is in keep,
// in input order. A nil keep retains everything.
func LongForm(samples []CleanedSample, keep []GroupSummary) []Observation {
	var allowed map[string]bool
	if keep != nil {
		allowed = make(map[string]bool, len(keep))
		for _, g := range keep {
			allowed[g.Key] = true
		}
	}
	out := make([]Observation, 0, len(samples))
	for _, s := range samples {
		if allowed != nil && !allowed[s.CountryOfOrigin] {
			continue
		}
		out = append(out, Observation{Key: s.CountryOfOrigin, Value: s.Score})
	}
	return out
}

// RadarRow is one polygon of a radar chart.
type RadarRow struct {
	Key    string
	Values []float64
}

// RadarMatrix is the bounds-prefixed table a radar chart consumes: a max row,
// a min row, then one row per profile. Values align to Axis.
type RadarMatrix struct {
	Axis []coffee.Attribute
	Max  RadarRow
	Min  RadarRow
	Rows []RadarRow
}

// NewRadarMatrix builds the matrix for profiles with constant bounds.
func NewRadarMatrix(profiles []SensoryProfile, axis []coffee.Attribute, lo, hi float64) RadarMatrix {
	m := RadarMatrix{
		Axis: axis,
		Max:  RadarRow{Key: "max", Values: constant(len(axis), hi)},
		Min:  RadarRow{Key: "min", Values: constant(len(axis), lo)},
	}
	for _, p := range profiles {
		m.Rows = append(m.Rows, RadarRow{Key: p.Key, Values: p.Vector(axis)})
	}
	return m
}

// Table returns the matrix as rows including the two bound rows first.
func (m RadarMatrix) Table() []RadarRow {
	return append([]RadarRow{m.Max, m.Min}, m.Rows...)
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// ChoroplethRows maps retained summaries to region rows valued by mean score.
func ChoroplethRows(summaries []GroupSummary, names *geo.Table, regions geo.Boundaries) geo.JoinResult {
	rows := make([]geo.Row, 0, len(summaries))
	for _, s := range summaries {
		if math.IsNaN(s.MeanScore) {
			continue
		}
		rows = append(rows, geo.Row{Label: s.Key, Value: s.MeanScore, Count: s.Count})
	}
	return geo.Join(rows, names, regions)
}
