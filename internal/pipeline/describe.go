package pipeline

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// ScoreStats describes the score column of the cleaned set.
type ScoreStats struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Std    float64
	Median float64
	// Outliers counts scores with robust |z| above OutlierThreshold (MAD based).
	Outliers         int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
}

// Describe computes dataset-level score statistics. Outliers are only counted
// for at least 8 samples with a non-zero MAD.
func Describe(samples []CleanedSample, threshold float64) ScoreStats {
	st := ScoreStats{N: len(samples), OutlierThreshold: threshold}
	if len(samples) == 0 {
		st.Min, st.Max, st.Mean, st.Std, st.Median = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return st
	}
	xs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Score
	}
	st.Min, st.Max = stats.Bounds(xs)
	st.Mean = stats.Mean(xs)
	if len(xs) > 1 {
		st.Std = stats.StdDev(xs)
	}
	med, mad := medianMAD(xs)
	st.Median = med
	if len(xs) < 8 || mad == 0 || threshold <= 0 {
		return st
	}
	for _, v := range xs {
		az := math.Abs(0.6745 * (v - med) / mad)
		if az > threshold {
			st.Outliers++
		}
		if az > st.OutliersMaxAbsZ {
			st.OutliersMaxAbsZ = az
		}
	}
	return st
}
