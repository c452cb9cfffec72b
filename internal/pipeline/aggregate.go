package pipeline

import (
	"context"
	"math"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
)

// GroupSummary is the score summary for one country.
type GroupSummary struct {
	Key         string
	MeanScore   float64
	MedianScore float64
	MinScore    float64
	MaxScore    float64
	StdDev      float64
	Count       int
	// Order is the position at which Key was first seen.
	Order int
}

// SensoryProfile holds per-attribute means for one country. An attribute with
// no present values has a NaN mean.
type SensoryProfile struct {
	Key     string
	Means   [coffee.AttributeCount]float64
	Present [coffee.AttributeCount]int
	Count   int
	Order   int
}

// Mean returns the profile mean for a.
func (p SensoryProfile) Mean(a coffee.Attribute) float64 {
	if a < 0 || int(a) >= coffee.AttributeCount {
		return math.NaN()
	}
	return p.Means[a]
}

// Vector returns the means aligned to axis.
func (p SensoryProfile) Vector(axis []coffee.Attribute) []float64 {
	out := make([]float64, len(axis))
	for i, a := range axis {
		out[i] = p.Mean(a)
	}
	return out
}

// group is one partition of cleaned samples sharing a country.
type group struct {
	key     string
	order   int
	samples []CleanedSample
}

// partition splits samples by country in discovery order. Samples inside a
// group keep input order.
func partition(samples []CleanedSample) []group {
	pos := map[string]int{}
	var groups []group
	for _, s := range samples {
		i, ok := pos[s.CountryOfOrigin]
		if !ok {
			i = len(groups)
			pos[s.CountryOfOrigin] = i
			groups = append(groups, group{key: s.CountryOfOrigin, order: i})
		}
		groups[i].samples = append(groups[i].samples, s)
	}
	return groups
}

// reduce applies fn to every group, concurrently when workers > 1. Each group
// is reduced sequentially in input order, so the result does not depend on
// scheduling.
func reduce[T any](ctx context.Context, groups []group, workers int, fn func(group) T) ([]T, error) {
	out := make([]T, len(groups))
	if workers <= 1 {
		for i, g := range groups {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = fn(g)
		}
		return out, nil
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, g := range groups {
		i, g := i, g
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = fn(g)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summarize computes one GroupSummary per country, in discovery order.
func Summarize(ctx context.Context, samples []CleanedSample, workers int) ([]GroupSummary, error) {
	return reduce(ctx, partition(samples), workers, summarizeGroup)
}

func summarizeGroup(g group) GroupSummary {
	scores := make([]float64, len(g.samples))
	for i, s := range g.samples {
		scores[i] = s.Score
	}
	lo, hi := stats.Bounds(scores)
	var sd float64
	if len(scores) > 1 {
		sd = stats.StdDev(scores)
	}
	return GroupSummary{
		Key:         g.key,
		MeanScore:   stats.Mean(scores),
		MedianScore: median(scores),
		MinScore:    lo,
		MaxScore:    hi,
		StdDev:      sd,
		Count:       len(scores),
		Order:       g.order,
	}
}

// Profile computes one SensoryProfile per country, in discovery order. Absent
// attribute values are excluded from that attribute's sum and divisor.
func Profile(ctx context.Context, samples []CleanedSample, workers int) ([]SensoryProfile, error) {
	return reduce(ctx, partition(samples), workers, profileGroup)
}

func profileGroup(g group) SensoryProfile {
	p := SensoryProfile{Key: g.key, Count: len(g.samples), Order: g.order}
	var sums [coffee.AttributeCount]float64
	for _, s := range g.samples {
		for a := range s.Sensory {
			if v := s.Sensory[a]; !math.IsNaN(v) {
				sums[a] += v
				p.Present[a]++
			}
		}
	}
	for a := range p.Means {
		if p.Present[a] == 0 {
			p.Means[a] = math.NaN()
			continue
		}
		p.Means[a] = sums[a] / float64(p.Present[a])
	}
	return p
}
