// Package pipeline cleans cupping samples, classifies them into quality bands
// and aggregates them per country.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
)

// Result carries every intermediate table produced by Run.
type Result struct {
	Options          Options
	Input            int
	Cleaned          []CleanedSample
	Dropped          DropCounts
	Methods          []MethodCount
	Stats            ScoreStats
	Summaries        []GroupSummary
	Retained         []GroupSummary
	Profiles         []SensoryProfile
	RetainedProfiles []SensoryProfile
}

// Pipeline runs the stages in order with a fixed set of options.
type Pipeline struct {
	opts Options
	log  zerolog.Logger
}

// New validates opts and returns a Pipeline logging to log.
func New(opts Options, log zerolog.Logger) (*Pipeline, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{opts: opts, log: log.With().Str("component", "pipeline").Logger()}, nil
}

// Options returns the effective options.
func (p *Pipeline) Options() Options { return p.opts }

// Run executes clean, classify, normalize, aggregate and filter. The input is
// not modified and the same input always yields the same Result.
func (p *Pipeline) Run(ctx context.Context, samples []coffee.Sample) (*Result, error) {
	start := time.Now()
	res := &Result{Options: p.opts, Input: len(samples)}

	cleaned, drops := Complete(samples)
	res.Dropped = drops
	p.log.Debug().
		Int("input", len(samples)).
		Int("kept", len(cleaned)).
		Int("missing_score", drops.MissingScore).
		Int("missing_country", drops.MissingCountry).
		Msg("cleaned samples")

	Classify(cleaned, p.opts.Ladder)
	res.Methods = NormalizeMethods(cleaned, p.opts.TopMethods)
	res.Cleaned = cleaned
	res.Stats = Describe(cleaned, p.opts.OutlierThreshold)
	p.log.Debug().Int("methods", len(res.Methods)).Int("top", p.opts.TopMethods).Msg("normalized processing methods")

	var err error
	if res.Summaries, err = Summarize(ctx, cleaned, p.opts.Workers); err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	if res.Profiles, err = Profile(ctx, cleaned, p.opts.Workers); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	res.Retained = FilterSummaries(res.Summaries, p.opts.MinSampleThreshold, p.opts.SortBy)
	res.RetainedProfiles = FilterProfiles(res.Profiles, p.opts.MinSampleThreshold)
	p.log.Debug().
		Int("groups", len(res.Summaries)).
		Int("retained", len(res.Retained)).
		Int("min_samples", p.opts.MinSampleThreshold).
		Msg("aggregated groups")

	p.log.Info().
		Int("samples", len(cleaned)).
		Int("dropped", drops.Total()).
		Int("countries", len(res.Retained)).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline complete")
	return res, nil
}

// Radar returns the radar matrix for the retained profiles.
func (r *Result) Radar(lo, hi float64) RadarMatrix {
	return NewRadarMatrix(r.RetainedProfiles, r.Options.Attributes, lo, hi)
}

// LongForm returns per-sample scores for retained countries.
func (r *Result) LongForm() []Observation {
	return LongForm(r.Cleaned, r.Retained)
}
