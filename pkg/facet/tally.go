package facet

import (
	"github.com/matst80/slask-discovery/pkg/types"
)

// Tally counts the values of each category over the given cards. Multi-valued
// attributes count once per value, pairs stripped by the predicate are skipped.
func Tally(cards []types.CourseCard, categories []string, p Predicate) types.Aggregations {
	ret := types.Aggregations{}
	for _, category := range categories {
		terms := map[string]int{}
		total := 0
		for _, card := range cards {
			for _, value := range card.Values(category) {
				if p.Strip(category, value) {
					continue
				}
				terms[value]++
				total++
			}
		}
		if len(terms) == 0 {
			continue
		}
		ret[category] = types.FacetAggregation{Terms: terms, Total: total, Other: 0}
	}
	return ret
}

// AddTally sums src into dst, term by term.
func AddTally(dst, src types.Aggregations) {
	for category, agg := range src {
		existing, found := dst[category]
		if !found {
			existing = types.FacetAggregation{Terms: map[string]int{}}
		}
		for term, count := range agg.Terms {
			existing.Terms[term] += count
		}
		existing.Total += agg.Total
		dst[category] = existing
	}
}

// Strip returns a copy of aggs without the pairs the predicate strips.
// Categories left without terms are dropped.
func Strip(aggs types.Aggregations, p Predicate) types.Aggregations {
	ret := types.Aggregations{}
	for category, agg := range aggs {
		terms := make(map[string]int, len(agg.Terms))
		total := agg.Total
		for term, count := range agg.Terms {
			if p.Strip(category, term) {
				total -= count
				continue
			}
			terms[term] = count
		}
		if len(terms) == 0 {
			continue
		}
		ret[category] = types.FacetAggregation{Terms: terms, Total: max(total, 0), Other: agg.Other}
	}
	return ret
}
