package pipeline

import (
	"math"
	"sort"
)

// median returns the median of vals; even-sized inputs average the two middle values.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return quantile(cp, 0.5)
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (med, mad float64) {
	if len(vals) == 0 {
		return math.NaN(), math.NaN()
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	med = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - med)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
