// Package report turns a pipeline result into Markdown, spreadsheet, CSV and
// terminal tables.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/geo"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

// Report bundles a pipeline result with the dataset it came from.
type Report struct {
	Name     string
	Rows     int
	Result   *pipeline.Result
	Map      *geo.JoinResult
	Warnings []string
}

// Markdown renders the report as sectioned plain Markdown.
func (r *Report) Markdown() string {
	res := r.Result
	if res == nil {
		res = &pipeline.Result{}
	}
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Samples: %d (dropped %d: %d missing score, %d missing country)\n",
		len(res.Cleaned), res.Dropped.Total(), res.Dropped.MissingScore, res.Dropped.MissingCountry))
	b.WriteString(fmt.Sprintf("Countries: %d (retained %d with n>=%d)\n",
		len(res.Summaries), len(res.Retained), res.Options.MinSampleThreshold))

	st := res.Stats
	b.WriteString("\n[SCORE DISTRIBUTION]\n")
	if st.N == 0 {
		b.WriteString("- no scored samples\n")
	} else {
		b.WriteString(fmt.Sprintf("- n=%d, min %s, max %s, mean %s, median %s, std %s\n",
			st.N, num(st.Min), num(st.Max), num(st.Mean), num(st.Median), num(st.Std)))
		if st.OutlierThreshold > 0 {
			b.WriteString(fmt.Sprintf("- outliers: %d above |z|>%.1f", st.Outliers, st.OutlierThreshold))
			if st.OutliersMaxAbsZ > 0 {
				b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", st.OutliersMaxAbsZ))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n[QUALITY CATEGORIES]\n")
	for _, c := range pipeline.CountByQuality(res.Cleaned) {
		b.WriteString(fmt.Sprintf("- %s: %d%s\n", c.Key, c.Count, share(c.Count, len(res.Cleaned))))
	}

	b.WriteString("\n[PROCESSING METHODS]\n")
	if len(res.Methods) == 0 {
		b.WriteString("- none\n")
	}
	for _, m := range res.Methods {
		mark := ""
		if !m.Kept {
			mark = fmt.Sprintf(" -> %s", pipeline.OtherMethod)
		}
		b.WriteString(fmt.Sprintf("- %s (%d)%s\n", safeVal(m.Method), m.Count, mark))
	}

	b.WriteString("\n[COUNTRY SUMMARY]\n")
	if len(res.Retained) == 0 {
		b.WriteString("- no country reaches the sample threshold\n")
	} else {
		b.WriteString("| country | n | mean | median | min | max | std |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
		for _, g := range res.Retained {
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s |\n",
				safeVal(g.Key), g.Count, num(g.MeanScore), num(g.MedianScore), num(g.MinScore), num(g.MaxScore), num(g.StdDev)))
		}
	}

	if len(res.RetainedProfiles) > 0 {
		axis := res.Options.Attributes
		if len(axis) == 0 {
			axis = coffee.AllAttributes()
		}
		b.WriteString("\n[SENSORY PROFILES]\n")
		for _, p := range res.RetainedProfiles {
			b.WriteString(fmt.Sprintf("- %s (n=%d):", safeVal(p.Key), p.Count))
			for i, a := range axis {
				if i > 0 {
					b.WriteString(",")
				}
				b.WriteString(fmt.Sprintf(" %s %s", a.Name(), num(p.Mean(a))))
			}
			b.WriteString("\n")
		}
	}

	if r.Map != nil {
		b.WriteString("\n[MAP JOIN]\n")
		matched := 0
		for _, row := range r.Map.Rows {
			if row.Matched {
				matched++
			}
		}
		b.WriteString(fmt.Sprintf("- regions: %d of %d matched\n", matched, len(r.Map.Rows)))
		if len(r.Map.Unmapped) > 0 {
			b.WriteString(fmt.Sprintf("- labels without a name-table entry: %s\n", strings.Join(r.Map.Unmapped, ", ")))
		}
		if len(r.Map.Unmatched) > 0 {
			b.WriteString(fmt.Sprintf("- regions missing from boundaries: %s\n", strings.Join(r.Map.Unmatched, ", ")))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", v)
}

func share(n, total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf(" (%.1f%%)", float64(n)*100/float64(total))
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
