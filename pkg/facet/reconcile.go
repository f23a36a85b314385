package facet

import "github.com/matst80/slask-discovery/pkg/types"

// Reconcile merges a server summary with a tally of the visible documents.
//
// A category only counted locally is taken as is. A category only reported by
// the server is kept. For a category in both, the server terms are kept and
// every locally counted term overwrites the server's count for it, the server
// has already counted the same documents and some of them may be hidden.
// Total is recomputed from the resulting terms.
func Reconcile(server, local types.Aggregations) types.Aggregations {
	ret := make(types.Aggregations, len(server)+len(local))
	for category, agg := range server {
		if _, counted := local[category]; counted {
			continue
		}
		ret[category] = agg
	}
	for category, agg := range local {
		base := server[category]
		terms := make(map[string]int, len(base.Terms)+len(agg.Terms))
		for term, count := range base.Terms {
			terms[term] = count
		}
		for term, count := range agg.Terms {
			terms[term] = count
		}
		total := 0
		for _, count := range terms {
			total += count
		}
		ret[category] = types.FacetAggregation{Terms: terms, Total: total, Other: base.Other}
	}
	return ret
}
