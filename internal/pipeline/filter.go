package pipeline

import "sort"

// FilterSummaries keeps summaries with Count >= minCount and orders them by
// key. Numeric keys sort descending; ties break by Key ascending.
func FilterSummaries(in []GroupSummary, minCount int, by SortBy) []GroupSummary {
	out := make([]GroupSummary, 0, len(in))
	for _, s := range in {
		if s.Count >= minCount {
			out = append(out, s)
		}
	}
	SortSummaries(out, by)
	return out
}

// SortSummaries orders summaries in place.
func SortSummaries(s []GroupSummary, by SortBy) {
	less := func(i, j int) bool { return s[i].Key < s[j].Key }
	switch by {
	case SortDiscovery:
		sort.SliceStable(s, func(i, j int) bool { return s[i].Order < s[j].Order })
		return
	case SortKey:
		sort.SliceStable(s, less)
		return
	case SortMedian:
		sort.SliceStable(s, func(i, j int) bool {
			if s[i].MedianScore == s[j].MedianScore {
				return less(i, j)
			}
			return s[i].MedianScore > s[j].MedianScore
		})
	case SortCount:
		sort.SliceStable(s, func(i, j int) bool {
			if s[i].Count == s[j].Count {
				return less(i, j)
			}
			return s[i].Count > s[j].Count
		})
	default:
		sort.SliceStable(s, func(i, j int) bool {
			if s[i].MeanScore == s[j].MeanScore {
				return less(i, j)
			}
			return s[i].MeanScore > s[j].MeanScore
		})
	}
}

// FilterProfiles keeps profiles with Count >= minCount in discovery order.
func FilterProfiles(in []SensoryProfile, minCount int) []SensoryProfile {
	out := make([]SensoryProfile, 0, len(in))
	for _, p := range in {
		if p.Count >= minCount {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
