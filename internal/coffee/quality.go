package coffee

// Quality is the ordered quality band derived from a cup score.
type Quality int

// Bands are declared from lowest to highest so comparisons follow rank.
const (
	Fair Quality = iota
	Good
	VeryGood
	Excellent
	Outstanding
)

var qualityNames = [...]string{"Fair", "Good", "Very Good", "Excellent", "Outstanding"}

func (q Quality) String() string {
	if q < Fair || q > Outstanding {
		return "Unknown"
	}
	return qualityNames[q]
}

// Threshold is an inclusive lower bound for a quality band.
type Threshold struct {
	Min     float64
	Quality Quality
}

// DefaultLadder lists band thresholds in descending order. Scores below the last
// entry are Fair.
func DefaultLadder() []Threshold {
	return []Threshold{
		{Min: 90, Quality: Outstanding},
		{Min: 85, Quality: Excellent},
		{Min: 80, Quality: VeryGood},
		{Min: 75, Quality: Good},
	}
}

// Qualities returns all bands from highest to lowest.
func Qualities() []Quality {
	return []Quality{Outstanding, Excellent, VeryGood, Good, Fair}
}

// Classify maps a score onto the ladder. The ladder must be sorted by Min
// descending; the first threshold the score reaches wins.
func Classify(score float64, ladder []Threshold) Quality {
	for _, t := range ladder {
		if score >= t.Min {
			return t.Quality
		}
	}
	return Fair
}
