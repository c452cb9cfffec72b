package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
)

// ErrInvalidOptions is wrapped by Options.Validate failures.
var ErrInvalidOptions = errors.New("invalid pipeline options")

// SortBy selects the ranking key for retained group summaries.
type SortBy string

const (
	SortMean      SortBy = "mean"
	SortMedian    SortBy = "median"
	SortCount     SortBy = "count"
	SortKey       SortBy = "key"
	SortDiscovery SortBy = "discovery"
)

// ParseSortBy accepts the names above, case-insensitively.
func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(strings.ToLower(strings.TrimSpace(s))); v {
	case SortMean, SortMedian, SortCount, SortKey, SortDiscovery:
		return v, nil
	case "":
		return SortMean, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q (use mean|median|count|key|discovery)", ErrInvalidOptions, s)
	}
}

// Options controls the clean, aggregate and filter stages.
type Options struct {
	// MinSampleThreshold drops groups with fewer contributing samples.
	MinSampleThreshold int
	// TopMethods is how many processing methods keep their own label.
	TopMethods int
	// SortBy orders retained group summaries.
	SortBy SortBy
	// Ladder maps scores to quality bands, sorted by Min descending.
	Ladder []coffee.Threshold
	// Attributes is the shared axis for sensory profiles.
	Attributes []coffee.Attribute
	// Workers > 1 aggregates groups concurrently.
	Workers int
	// OutlierThreshold is the robust |z| cutoff used by Describe.
	OutlierThreshold float64
}

// DefaultOptions returns the settings used by the workshop notebook.
func DefaultOptions() Options {
	return Options{
		MinSampleThreshold: 5,
		TopMethods:         5,
		SortBy:             SortMean,
		Ladder:             coffee.DefaultLadder(),
		Attributes:         coffee.AllAttributes(),
		OutlierThreshold:   3.5,
	}
}

// Validate reports option values no stage can work with.
func (o Options) Validate() error {
	if o.MinSampleThreshold < 0 {
		return fmt.Errorf("%w: min sample threshold must be >= 0, got %d", ErrInvalidOptions, o.MinSampleThreshold)
	}
	if o.TopMethods <= 0 {
		return fmt.Errorf("%w: top methods must be > 0, got %d", ErrInvalidOptions, o.TopMethods)
	}
	if _, err := ParseSortBy(string(o.SortBy)); err != nil {
		return err
	}
	for i := 1; i < len(o.Ladder); i++ {
		if o.Ladder[i].Min >= o.Ladder[i-1].Min {
			return fmt.Errorf("%w: quality ladder must be strictly descending", ErrInvalidOptions)
		}
	}
	if len(o.Attributes) == 0 {
		return fmt.Errorf("%w: at least one sensory attribute is required", ErrInvalidOptions)
	}
	for _, a := range o.Attributes {
		if a < 0 || int(a) >= coffee.AttributeCount {
			return fmt.Errorf("%w: unknown attribute %d", ErrInvalidOptions, int(a))
		}
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidOptions)
	}
	return nil
}

// withDefaults fills zero-valued slices so callers may pass a partial Options.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Ladder == nil {
		o.Ladder = d.Ladder
	}
	if o.Attributes == nil {
		o.Attributes = d.Attributes
	}
	if o.SortBy == "" {
		o.SortBy = d.SortBy
	}
	if o.OutlierThreshold <= 0 {
		o.OutlierThreshold = d.OutlierThreshold
	}
	return o
}
