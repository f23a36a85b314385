package facet

import (
	"maps"
	"slices"
	"strings"

	"github.com/matst80/slask-discovery/pkg/types"
)

// OptionSet holds facet options unique by facet and term. Options are only
// removed by Reset.
type OptionSet struct {
	options map[types.FacetOptionKey]int
}

func NewOptionSet() *OptionSet {
	return &OptionSet{options: make(map[types.FacetOptionKey]int)}
}

// Upsert adds the option or overwrites the count of an existing one.
func (s *OptionSet) Upsert(option types.FacetOption) {
	s.options[option.Key()] = option.Count
}

// UpsertAggregations upserts every pair of aggs, categories and terms in
// ascending order.
func (s *OptionSet) UpsertAggregations(aggs types.Aggregations) {
	for _, category := range slices.Sorted(maps.Keys(aggs)) {
		terms := aggs[category].Terms
		for _, term := range slices.Sorted(maps.Keys(terms)) {
			s.Upsert(types.FacetOption{Facet: category, Term: term, Count: terms[term]})
		}
	}
}

func (s *OptionSet) Get(facet, term string) (types.FacetOption, bool) {
	count, found := s.options[types.FacetOptionKey{Facet: facet, Term: term}]
	if !found {
		return types.FacetOption{}, false
	}
	return types.FacetOption{Facet: facet, Term: term, Count: count}, true
}

func (s *OptionSet) Len() int {
	return len(s.options)
}

func (s *OptionSet) Reset() {
	clear(s.options)
}

func (s *OptionSet) Clone() *OptionSet {
	return &OptionSet{options: maps.Clone(s.options)}
}

// Options returns all options ordered by facet, then term.
func (s *OptionSet) Options() []types.FacetOption {
	ret := make([]types.FacetOption, 0, len(s.options))
	for key, count := range s.options {
		ret = append(ret, types.FacetOption{Facet: key.Facet, Term: key.Term, Count: count})
	}
	slices.SortFunc(ret, compareOptions)
	return ret
}

// Grouped returns the options per facet, each list sorted by term.
func (s *OptionSet) Grouped() map[string][]types.FacetOption {
	ret := map[string][]types.FacetOption{}
	for _, option := range s.Options() {
		ret[option.Facet] = append(ret[option.Facet], option)
	}
	return ret
}

func compareOptions(a, b types.FacetOption) int {
	if c := strings.Compare(a.Facet, b.Facet); c != 0 {
		return c
	}
	return strings.Compare(a.Term, b.Term)
}
