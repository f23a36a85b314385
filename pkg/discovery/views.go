package discovery

import "github.com/matst80/slask-discovery/pkg/types"

// SearchForm is the free-text input and its status messages.
type SearchForm interface {
	ShowLoading()
	HideLoading()
	ShowFound(query string, total int)
	ShowNotFound(query string)
	ShowError(message string)
}

// FilterBar shows the active filters as removable chips.
type FilterBar interface {
	Render(terms []types.FilterTerm)
}

// RefinementMenu is the sidebar of facet options, grouped per facet and
// sorted by term.
type RefinementMenu interface {
	Render(options map[string][]types.FacetOption)
}

type Listing interface {
	Render(cards []types.CourseCard, hasMore bool)
	Append(cards []types.CourseCard, hasMore bool)
}

type Views struct {
	Form        SearchForm
	FilterBar   FilterBar
	Refinements RefinementMenu
	Listing     Listing
}
