package report

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/geo"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

// SummaryFrame lists the retained country summaries in ranking order.
func SummaryFrame(summaries []pipeline.GroupSummary) dataframe.DataFrame {
	n := len(summaries)
	keys := make([]string, n)
	counts := make([]int, n)
	mean, med, lo, hi, sd := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, g := range summaries {
		keys[i] = g.Key
		counts[i] = g.Count
		mean[i], med[i], lo[i], hi[i], sd[i] = g.MeanScore, g.MedianScore, g.MinScore, g.MaxScore, g.StdDev
	}
	return dataframe.New(
		series.New(keys, series.String, "country"),
		series.New(counts, series.Int, "count"),
		series.New(mean, series.Float, "mean_score"),
		series.New(med, series.Float, "median_score"),
		series.New(lo, series.Float, "min_score"),
		series.New(hi, series.Float, "max_score"),
		series.New(sd, series.Float, "std_dev"),
	)
}

// ProfileFrame has one row per profile and one column per attribute in axis.
func ProfileFrame(profiles []pipeline.SensoryProfile, axis []coffee.Attribute) dataframe.DataFrame {
	keys := make([]string, len(profiles))
	counts := make([]int, len(profiles))
	cols := make([][]float64, len(axis))
	for j := range cols {
		cols[j] = make([]float64, len(profiles))
	}
	for i, p := range profiles {
		keys[i] = p.Key
		counts[i] = p.Count
		for j, a := range axis {
			cols[j][i] = p.Mean(a)
		}
	}
	ss := []series.Series{
		series.New(keys, series.String, "country"),
		series.New(counts, series.Int, "count"),
	}
	for j, a := range axis {
		ss = append(ss, series.New(cols[j], series.Float, a.Name()))
	}
	return dataframe.New(ss...)
}

// RadarFrame is the bounds-prefixed radar matrix: max row, min row, then profiles.
func RadarFrame(m pipeline.RadarMatrix) dataframe.DataFrame {
	rows := m.Table()
	keys := make([]string, len(rows))
	cols := make([][]float64, len(m.Axis))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}
	for i, r := range rows {
		keys[i] = r.Key
		for j := range m.Axis {
			cols[j][i] = r.Values[j]
		}
	}
	ss := []series.Series{series.New(keys, series.String, "row")}
	for j, a := range m.Axis {
		ss = append(ss, series.New(cols[j], series.Float, a.Name()))
	}
	return dataframe.New(ss...)
}

// LongFrame lists one (country, score) row per observation.
func LongFrame(obs []pipeline.Observation) dataframe.DataFrame {
	keys := make([]string, len(obs))
	vals := make([]float64, len(obs))
	for i, o := range obs {
		keys[i], vals[i] = o.Key, o.Value
	}
	return dataframe.New(
		series.New(keys, series.String, "country"),
		series.New(vals, series.Float, "total_cup_points"),
	)
}

// MapFrame is the choropleth-ready table keyed by boundary region name.
func MapFrame(j *geo.JoinResult) dataframe.DataFrame {
	var rows []geo.Row
	if j != nil {
		rows = j.Rows
	}
	labels := make([]string, len(rows))
	regions := make([]string, len(rows))
	vals := make([]float64, len(rows))
	counts := make([]int, len(rows))
	matched := make([]bool, len(rows))
	for i, r := range rows {
		labels[i], regions[i], vals[i], counts[i], matched[i] = r.Label, r.Region, r.Value, r.Count, r.Matched
	}
	return dataframe.New(
		series.New(labels, series.String, "country"),
		series.New(regions, series.String, "region"),
		series.New(vals, series.Float, "mean_score"),
		series.New(counts, series.Int, "count"),
		series.New(matched, series.Bool, "matched"),
	)
}
