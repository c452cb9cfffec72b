package pipeline

import (
	"sort"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
)

const (
	// UnknownMethod fills an absent processing method.
	UnknownMethod = "Unknown"
	// OtherMethod collects processing methods outside the top N.
	OtherMethod = "Other"
)

// CleanedSample is a Sample with score and country present plus derived labels.
type CleanedSample struct {
	coffee.Sample
	// Index is the position of the sample in the input sequence.
	Index   int
	Quality coffee.Quality
	// Method is the normalized processing method.
	Method string
}

// DropCounts records why samples were excluded. A sample missing both fields
// counts under MissingScore.
type DropCounts struct {
	MissingScore   int
	MissingCountry int
}

// Total returns the number of dropped samples.
func (d DropCounts) Total() int { return d.MissingScore + d.MissingCountry }

// MethodCount is the frequency of one processing method before lumping.
type MethodCount struct {
	Method string
	Count  int
	Kept   bool
}

// Clean drops incomplete samples, classifies scores and normalizes processing
// methods. Output follows input order.
func Clean(samples []coffee.Sample, opt Options) ([]CleanedSample, DropCounts) {
	opt = opt.withDefaults()
	out, drops := Complete(samples)
	Classify(out, opt.Ladder)
	NormalizeMethods(out, opt.TopMethods)
	return out, drops
}

// Complete keeps samples with both score and country present.
func Complete(samples []coffee.Sample) ([]CleanedSample, DropCounts) {
	var drops DropCounts
	out := make([]CleanedSample, 0, len(samples))
	for i, s := range samples {
		switch {
		case !s.HasScore():
			drops.MissingScore++
		case !s.HasCountry():
			drops.MissingCountry++
		default:
			out = append(out, CleanedSample{Sample: s, Index: i})
		}
	}
	return out, drops
}

// Classify sets Quality on every sample from its score.
func Classify(samples []CleanedSample, ladder []coffee.Threshold) {
	for i := range samples {
		samples[i].Quality = coffee.Classify(samples[i].Score, ladder)
	}
}

// NormalizeMethods fills absent methods with "Unknown", keeps the topN most
// frequent labels and maps the rest to "Other". Ties at equal frequency are
// broken by label in ascending byte order. It returns every distinct label with
// its frequency in rank order.
func NormalizeMethods(samples []CleanedSample, topN int) []MethodCount {
	counts := map[string]int{}
	for i := range samples {
		m := samples[i].ProcessingMethod
		if m == "" {
			m = UnknownMethod
		}
		samples[i].Method = m
		counts[m]++
	}
	ranked := make([]MethodCount, 0, len(counts))
	for m, n := range counts {
		ranked = append(ranked, MethodCount{Method: m, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count == ranked[j].Count {
			return ranked[i].Method < ranked[j].Method
		}
		return ranked[i].Count > ranked[j].Count
	})
	kept := make(map[string]bool, topN)
	for i := range ranked {
		if i < topN {
			ranked[i].Kept = true
			kept[ranked[i].Method] = true
		}
	}
	for i := range samples {
		if !kept[samples[i].Method] {
			samples[i].Method = OtherMethod
		}
	}
	return ranked
}
