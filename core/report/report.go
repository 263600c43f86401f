// Package report implements the read-only aggregations backing the module
// dashboards. Everything here is a pure reduction over rows already fetched
// from a repository; nothing is persisted and results are recomputed on every
// request.
package report

import "sort"

type (
	// Item is one row contributed to an aggregation.
	Item struct {
		Key    string
		Weight float64
	}

	// Group is the aggregate for one key.
	Group struct {
		Key   string  `json:"key"`
		Count int     `json:"count"`
		Sum   float64 `json:"sum"`
	}
)

// Average returns Sum/Count, or 0 for an empty group.
func (g Group) Average() float64 {
	if g.Count == 0 {
		return 0
	}
	return g.Sum / float64(g.Count)
}

// Aggregate groups items by Key, counting occurrences and summing weights.
// Groups come back in first-seen order, so callers feeding rows in query
// order get deterministic output.
func Aggregate(items []Item) []Group {
	idx := make(map[string]int, len(items))
	groups := make([]Group, 0, len(items))

	for _, it := range items {
		i, ok := idx[it.Key]
		if !ok {
			i = len(groups)
			idx[it.Key] = i
			groups = append(groups, Group{Key: it.Key})
		}
		groups[i].Count++
		groups[i].Sum += it.Weight
	}
	return groups
}

// TopN returns the n groups with the largest Sum. The sort is stable so ties
// keep the incoming order. The input slice is not modified.
func TopN(groups []Group, n int) []Group {
	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sum > sorted[j].Sum })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
