package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/slask-discovery/pkg/events"
	"github.com/matst80/slask-discovery/pkg/facet"
	"github.com/matst80/slask-discovery/pkg/state"
	"github.com/matst80/slask-discovery/pkg/types"
)

type request struct {
	query string
	terms []types.FilterTerm
	page  int
}

// scriptedFetcher answers with a page whose total is looked up by query and
// filter count, or fails when err is set.
type scriptedFetcher struct {
	mu       sync.Mutex
	requests []request
	totals   func(query string, terms []types.FilterTerm) int
	err      error
}

func (f *scriptedFetcher) Fetch(ctx context.Context, query string, terms []types.FilterTerm, page int) (*types.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, request{query: query, terms: terms, page: page})
	if f.err != nil {
		return nil, f.err
	}
	total := 4
	if f.totals != nil {
		total = f.totals(query, terms)
	}
	results := []types.Result{}
	for i := 0; i < min(total, 2); i++ {
		results = append(results, types.Result{Data: map[string]any{
			"id":          fmt.Sprintf("%d-%d", page, i),
			"course_type": "course",
			"subject":     "cs",
		}})
	}
	return &types.SearchPage{Total: total, Results: results}, nil
}

func (f *scriptedFetcher) last() request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeViews struct {
	calls   []string
	terms   []types.FilterTerm
	cards   []types.CourseCard
	options map[string][]types.FacetOption
	message string
}

func (v *fakeViews) ShowLoading()                      { v.calls = append(v.calls, "loading") }
func (v *fakeViews) HideLoading()                      { v.calls = append(v.calls, "loaded") }
func (v *fakeViews) ShowFound(query string, total int) { v.calls = append(v.calls, fmt.Sprintf("found %d", total)) }
func (v *fakeViews) ShowNotFound(query string)         { v.calls = append(v.calls, "not found") }
func (v *fakeViews) ShowError(message string) {
	v.calls = append(v.calls, "error")
	v.message = message
}

type filterBarView struct{ *fakeViews }

func (v filterBarView) Render(terms []types.FilterTerm) { v.terms = terms }

type refinementView struct{ *fakeViews }

func (v refinementView) Render(options map[string][]types.FacetOption) { v.options = options }

type listingView struct{ *fakeViews }

func (v listingView) Render(cards []types.CourseCard, hasMore bool) { v.cards = cards }
func (v listingView) Append(cards []types.CourseCard, hasMore bool) {
	v.cards = append(v.cards, cards...)
	v.calls = append(v.calls, "append")
}

func setup(t *testing.T, fetcher *scriptedFetcher) (*Coordinator, *fakeViews) {
	t.Helper()
	bus := events.NewBus()
	s := state.NewSearchState(fetcher, bus, state.Config{
		FacetFields: []string{"subject"},
		Predicate:   facet.AllDocuments,
	})
	v := &fakeViews{}
	c := NewCoordinator(bus, s, Views{
		Form:        v,
		FilterBar:   filterBarView{v},
		Refinements: refinementView{v},
		Listing:     listingView{v},
	})
	c.Start(context.Background())
	t.Cleanup(c.Stop)
	return c, v
}

var computerScience = types.FilterTerm{Type: "subject", Query: "cs", Name: "Computer Science"}

func TestFreeTextSearchAddsQueryFilter(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, v := setup(t, fetcher)

	c.Search("python")

	assert.Equal(t, request{query: "python", terms: nil, page: 0}, fetcher.last())
	assert.Equal(t, []string{"loading", "found 4", "loaded"}, v.calls)
	assert.Equal(t, []types.FilterTerm{types.QueryTerm("python")}, v.terms)
	assert.Len(t, v.cards, 2)
	assert.Equal(t, []types.FacetOption{{Facet: "subject", Term: "cs", Count: 2}}, v.options["subject"])
}

func TestSelectRefinementTogglesTerm(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, v := setup(t, fetcher)

	c.SelectRefinement(computerScience)
	assert.Equal(t, []types.FilterTerm{computerScience}, fetcher.last().terms)
	assert.Equal(t, []types.FilterTerm{computerScience}, c.Filters())
	assert.Equal(t, []types.FilterTerm{computerScience}, v.terms)

	c.SelectRefinement(computerScience)
	assert.Empty(t, fetcher.last().terms)
	assert.Empty(t, c.Filters())
	assert.Len(t, fetcher.requests, 2)
}

func TestRefineKeepsQuery(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, _ := setup(t, fetcher)

	c.Search("python")
	c.SelectRefinement(computerScience)

	assert.Equal(t, request{query: "python", terms: []types.FilterTerm{computerScience}}, fetcher.last())
	assert.Equal(t, []types.FilterTerm{types.QueryTerm("python"), computerScience}, c.Filters())
}

func TestNoResultsClearsFilters(t *testing.T) {
	fetcher := &scriptedFetcher{totals: func(query string, terms []types.FilterTerm) int {
		if len(terms) > 0 {
			return 0
		}
		return 4
	}}
	c, v := setup(t, fetcher)

	c.Search("python")
	v.calls = nil
	c.SelectRefinement(computerScience)

	assert.Empty(t, c.Filters())
	assert.Empty(t, v.terms)
	assert.Equal(t, []string{"loading", "not found", "loaded"}, v.calls)
	assert.NotContains(t, v.calls, "found 0")
}

func TestClearQueryFilterStartsFreshSearch(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, _ := setup(t, fetcher)

	c.Search("python")
	c.SelectRefinement(computerScience)
	c.ClearFilter(types.SearchQueryType)

	assert.Equal(t, request{query: ""}, fetcher.last())
	assert.Empty(t, c.Filters())
}

func TestClearSingleFilterRefines(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, _ := setup(t, fetcher)
	language := types.FilterTerm{Type: "language", Query: "en", Name: "English"}

	c.Search("python")
	c.SelectRefinement(computerScience)
	c.SelectRefinement(language)
	c.ClearFilter("subject")

	assert.Equal(t, request{query: "python", terms: []types.FilterTerm{language}}, fetcher.last())
	assert.Equal(t, []types.FilterTerm{types.QueryTerm("python"), language}, c.Filters())

	// clearing an absent category still refines
	c.ClearFilter("missing")
	assert.Len(t, fetcher.requests, 5)
}

func TestClearAll(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, _ := setup(t, fetcher)

	c.Search("python")
	c.SelectRefinement(computerScience)
	c.ClearAll()

	assert.Equal(t, request{query: ""}, fetcher.last())
	assert.Empty(t, c.Filters())
}

func TestLoadMoreAppends(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, v := setup(t, fetcher)

	c.Search("python")
	c.LoadMore()

	assert.Equal(t, 1, fetcher.last().page)
	assert.Len(t, v.cards, 4)
	assert.Equal(t, "append", v.calls[len(v.calls)-1])
}

func TestErrorShowsMessage(t *testing.T) {
	fetcher := &scriptedFetcher{err: errors.New("connection refused")}
	c, v := setup(t, fetcher)

	c.Search("python")

	assert.Equal(t, []string{"loading", "error", "loaded"}, v.calls)
	assert.Equal(t, state.ErrorMessage, v.message)
	assert.Empty(t, c.Filters())
}

func TestBootstrapWithRefinement(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, _ := setup(t, fetcher)

	values := url.Values{}
	values.Set("type", "subject")
	values.Set("query", "cs")
	values.Set("name", "Computer Science")
	require.NoError(t, c.Bootstrap(values))

	assert.Equal(t, request{query: "", terms: []types.FilterTerm{computerScience}}, fetcher.last())
	assert.Equal(t, []types.FilterTerm{computerScience}, c.Filters())
}

func TestBootstrapIncompleteTriple(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, _ := setup(t, fetcher)

	values, err := url.ParseQuery("type=subject&query=cs&search_query=python")
	require.NoError(t, err)
	require.NoError(t, c.Bootstrap(values))

	assert.Equal(t, request{query: "python"}, fetcher.last())
}

func TestBootstrapEmpty(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, _ := setup(t, fetcher)

	require.NoError(t, c.Bootstrap(url.Values{}))
	assert.Equal(t, request{query: ""}, fetcher.last())
	assert.Empty(t, c.Filters())
}

func TestSetViewReloadsWithActiveFilters(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c, v := setup(t, fetcher)

	c.Search("python")
	c.SelectRefinement(computerScience)
	c.SetView(facet.OnlyCourseType("video"))

	assert.Equal(t, request{query: "python", terms: []types.FilterTerm{computerScience}}, fetcher.last())
	assert.Len(t, fetcher.requests, 3)
	assert.Empty(t, v.cards)
	assert.Equal(t, []types.FilterTerm{types.QueryTerm("python"), computerScience}, c.Filters())
}
