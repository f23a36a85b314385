package types

import (
	"encoding/json"
	"log"

	"github.com/matst80/slask-discovery/pkg/common/jsoncompat"
)

type FacetAggregation struct {
	Terms map[string]int `json:"terms"`
	Total int            `json:"total"`
	Other int            `json:"other"`
}

// Aggregations maps a facet category to its term counts.
type Aggregations map[string]FacetAggregation

func (a Aggregations) Clone() Aggregations {
	ret := make(Aggregations, len(a))
	for key, agg := range a {
		terms := make(map[string]int, len(agg.Terms))
		for term, count := range agg.Terms {
			terms[term] = count
		}
		ret[key] = FacetAggregation{Terms: terms, Total: agg.Total, Other: agg.Other}
	}
	return ret
}

// ParseAggregations decodes a server aggregation summary. A payload that is
// missing or not an object yields an empty summary, a single malformed
// category is skipped and negative counts are dropped.
func ParseAggregations(data []byte) Aggregations {
	ret := Aggregations{}
	if len(data) == 0 {
		return ret
	}
	var raw map[string]json.RawMessage
	if err := jsoncompat.Unmarshal(data, &raw); err != nil {
		log.Printf("ignoring malformed aggregations: %v", err)
		return ret
	}
	for key, value := range raw {
		var agg FacetAggregation
		if err := jsoncompat.Unmarshal(value, &agg); err != nil {
			log.Printf("ignoring malformed aggregation %s: %v", key, err)
			continue
		}
		terms := make(map[string]int, len(agg.Terms))
		for term, count := range agg.Terms {
			if count < 0 {
				continue
			}
			terms[term] = count
		}
		agg.Terms = terms
		ret[key] = agg
	}
	return ret
}

type Result struct {
	Data map[string]any `json:"data"`
}

// SearchPage is one page as returned by a search transport.
type SearchPage struct {
	Total        int          `json:"total"`
	Results      []Result     `json:"results"`
	Aggregations Aggregations `json:"aggregations"`
}

// RawSearchPage is the wire form of a page, aggregations are kept raw so a
// broken summary never fails the whole response.
type RawSearchPage struct {
	Total        int             `json:"total"`
	Results      []Result        `json:"results"`
	Aggregations json.RawMessage `json:"aggregations"`
}

func (r *RawSearchPage) Page() *SearchPage {
	results := r.Results
	if results == nil {
		results = []Result{}
	}
	return &SearchPage{
		Total:        r.Total,
		Results:      results,
		Aggregations: ParseAggregations(r.Aggregations),
	}
}
