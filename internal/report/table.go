package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/aclements/go-gg/table"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

// View names accepted by FprintTable.
const (
	ViewSummary  = "summary"
	ViewProfiles = "profiles"
	ViewQuality  = "quality"
	ViewMethods  = "methods"
	ViewCountry  = "countries"
)

// Views lists the table views in display order.
func Views() []string {
	return []string{ViewSummary, ViewProfiles, ViewQuality, ViewMethods, ViewCountry}
}

// FprintTable prints one view of res as an aligned text table.
func FprintTable(w io.Writer, view string, res *pipeline.Result) error {
	if res == nil {
		return fmt.Errorf("no result to print")
	}
	var tab *table.Table
	switch strings.ToLower(view) {
	case ViewSummary:
		tab = summaryTable(res.Retained)
	case ViewProfiles:
		tab = profileTable(res.RetainedProfiles, res.Options.Attributes)
	case ViewQuality:
		tab = countTable("quality", pipeline.CountByQuality(res.Cleaned))
	case ViewMethods:
		tab = countTable("method", pipeline.CountByMethod(res.Cleaned))
	case ViewCountry:
		tab = countTable("country", pipeline.CountByCountry(res.Cleaned))
	default:
		return fmt.Errorf("unknown view %q (use %s)", view, strings.Join(Views(), "|"))
	}
	table.Fprint(w, tab)
	return nil
}

func summaryTable(s []pipeline.GroupSummary) *table.Table {
	keys := make([]string, len(s))
	counts := make([]int, len(s))
	mean := make([]string, len(s))
	med := make([]string, len(s))
	rng := make([]string, len(s))
	for i, g := range s {
		keys[i], counts[i] = g.Key, g.Count
		mean[i], med[i] = fixed(g.MeanScore), fixed(g.MedianScore)
		rng[i] = fixed(g.MinScore) + "-" + fixed(g.MaxScore)
	}
	return new(table.Builder).
		Add("country", keys).
		Add("n", counts).
		Add("mean", mean).
		Add("median", med).
		Add("range", rng).
		Done()
}

func profileTable(ps []pipeline.SensoryProfile, axis []coffee.Attribute) *table.Table {
	if len(axis) == 0 {
		axis = coffee.AllAttributes()
	}
	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key
	}
	b := new(table.Builder).Add("country", keys)
	for _, a := range axis {
		col := make([]string, len(ps))
		for i, p := range ps {
			col[i] = fixed(p.Mean(a))
		}
		b.Add(a.Name(), col)
	}
	return b.Done()
}

func countTable(name string, counts []pipeline.CategoryCount) *table.Table {
	keys := make([]string, len(counts))
	ns := make([]int, len(counts))
	for i, c := range counts {
		keys[i], ns[i] = c.Key, c.Count
	}
	return new(table.Builder).Add(name, keys).Add("n", ns).Done()
}

func fixed(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
