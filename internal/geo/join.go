package geo

import "sort"

// Row is one (region, value) pair destined for a choropleth.
type Row struct {
	Label  string
	Region string
	Value  float64
	Count  int
	// Matched is false when a boundary set was supplied and Region is not in it.
	Matched bool
}

// JoinResult is the normalized table plus diagnostics for extending the name table.
type JoinResult struct {
	Rows []Row
	// Unmapped lists labels with no table entry, passed through unchanged.
	Unmapped []string
	// Unmatched lists regions missing from the boundary set.
	Unmatched []string
}

// Join normalizes each row label through t. With a nil or empty boundary set
// every row counts as matched.
func Join(rows []Row, t *Table, b Boundaries) JoinResult {
	var res JoinResult
	seenUnmapped := map[string]bool{}
	seenUnmatched := map[string]bool{}
	for _, r := range rows {
		region, ok := t.Lookup(r.Label)
		if !ok {
			region = r.Label
			if !seenUnmapped[r.Label] {
				seenUnmapped[r.Label] = true
				res.Unmapped = append(res.Unmapped, r.Label)
			}
		}
		r.Region = region
		r.Matched = len(b) == 0 || b.Has(region)
		if !r.Matched && !seenUnmatched[region] {
			seenUnmatched[region] = true
			res.Unmatched = append(res.Unmatched, region)
		}
		res.Rows = append(res.Rows, r)
	}
	sort.Strings(res.Unmapped)
	sort.Strings(res.Unmatched)
	return res
}
