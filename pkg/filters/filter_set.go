// Package filters holds the active refinements of a discovery session.
package filters

import (
	"slices"

	"github.com/matst80/slask-discovery/pkg/types"
)

// FilterSet is an insertion ordered set of filter terms, unique by category.
type FilterSet struct {
	order []string
	terms map[string]types.FilterTerm
}

func NewFilterSet() *FilterSet {
	return &FilterSet{
		order: make([]string, 0),
		terms: make(map[string]types.FilterTerm),
	}
}

// Add stores term under its category. An existing category is overwritten in
// place when merge is set, otherwise ErrDuplicateFilter is returned and the
// set is left untouched.
func (f *FilterSet) Add(term types.FilterTerm, merge bool) error {
	if _, found := f.terms[term.Type]; found {
		if !merge {
			return types.ErrDuplicateFilter
		}
		f.terms[term.Type] = term
		return nil
	}
	f.terms[term.Type] = term
	f.order = append(f.order, term.Type)
	return nil
}

func (f *FilterSet) Remove(category string) {
	if _, found := f.terms[category]; !found {
		return
	}
	delete(f.terms, category)
	f.order = slices.DeleteFunc(f.order, func(c string) bool {
		return c == category
	})
}

func (f *FilterSet) Reset() {
	f.order = f.order[:0]
	clear(f.terms)
}

func (f *FilterSet) Get(category string) (types.FilterTerm, bool) {
	term, found := f.terms[category]
	return term, found
}

func (f *FilterSet) Has(category string) bool {
	_, found := f.terms[category]
	return found
}

func (f *FilterSet) Len() int {
	return len(f.order)
}

// Terms returns the held terms in insertion order.
func (f *FilterSet) Terms() []types.FilterTerm {
	ret := make([]types.FilterTerm, 0, len(f.order))
	for _, category := range f.order {
		ret = append(ret, f.terms[category])
	}
	return ret
}

// Refinements returns the held terms without the free-text query term.
func (f *FilterSet) Refinements() []types.FilterTerm {
	return slices.DeleteFunc(f.Terms(), func(t types.FilterTerm) bool {
		return t.IsSearchQuery()
	})
}
