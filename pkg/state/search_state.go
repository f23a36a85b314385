// Package state keeps the result listing and facet summary of a discovery session.
package state

import (
	"context"
	"log"
	"maps"
	"slices"
	"sync"

	"github.com/matst80/slask-discovery/pkg/events"
	"github.com/matst80/slask-discovery/pkg/facet"
	"github.com/matst80/slask-discovery/pkg/types"
)

// Fetcher requests one page of results from the remote index.
type Fetcher interface {
	Fetch(ctx context.Context, query string, terms []types.FilterTerm, page int) (*types.SearchPage, error)
}

type Config struct {
	// FacetFields are tallied locally even when the server does not report them.
	FacetFields []string
	Predicate   facet.Predicate
}

type SearchState struct {
	mu          sync.Mutex
	fetcher     Fetcher
	bus         *events.Bus
	predicate   facet.Predicate
	facetFields []string

	query       string
	terms       []types.FilterTerm
	page        int
	totalCount  int
	latestCount int
	received    int
	exhausted   bool
	cards       []types.CourseCard
	options     *facet.OptionSet
	localTally  types.Aggregations
	merged      types.Aggregations

	sequence     uint64
	pending      bool
	errorMessage string
	err          error
}

func NewSearchState(fetcher Fetcher, bus *events.Bus, config Config) *SearchState {
	predicate := config.Predicate
	if predicate == nil {
		predicate = facet.AllDocuments
	}
	return &SearchState{
		fetcher:     fetcher,
		bus:         bus,
		predicate:   predicate,
		facetFields: slices.Clone(config.FacetFields),
		cards:       make([]types.CourseCard, 0),
		terms:       make([]types.FilterTerm, 0),
		options:     facet.NewOptionSet(),
		localTally:  types.Aggregations{},
		merged:      types.Aggregations{},
	}
}

// SetPredicate replaces the page filter used for pages merged from now on.
func (s *SearchState) SetPredicate(p facet.Predicate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		p = facet.AllDocuments
	}
	s.predicate = p
}

// PerformSearch fetches the first page for query and terms and replaces the
// held results when it arrives.
func (s *SearchState) PerformSearch(ctx context.Context, query string, terms []types.FilterTerm) {
	token := s.begin()
	s.fetch(ctx, token, query, slices.Clone(terms), 0, false)
}

// RefineSearch is PerformSearch with the current query.
func (s *SearchState) RefineSearch(ctx context.Context, terms []types.FilterTerm) {
	s.mu.Lock()
	query := s.query
	s.mu.Unlock()
	s.PerformSearch(ctx, query, terms)
}

// LoadNextPage appends the following page. It does nothing while a request
// is pending or when every page has been received.
func (s *SearchState) LoadNextPage(ctx context.Context) {
	s.mu.Lock()
	if s.pending || !s.hasNextPage() {
		s.mu.Unlock()
		return
	}
	s.sequence++
	s.pending = true
	token := s.sequence
	query, terms, page := s.query, slices.Clone(s.terms), s.page+1
	s.mu.Unlock()

	s.fetch(ctx, token, query, terms, page, true)
}

// Reset drops all results and facet options. A pending response is discarded.
func (s *SearchState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	s.pending = false
	s.query = ""
	s.terms = s.terms[:0]
	s.page = 0
	s.totalCount = 0
	s.latestCount = 0
	s.clearResults()
}

func (s *SearchState) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	s.pending = true
	return s.sequence
}

func (s *SearchState) clearResults() {
	s.received = 0
	s.exhausted = false
	s.cards = s.cards[:0]
	s.options.Reset()
	s.localTally = types.Aggregations{}
	s.merged = types.Aggregations{}
	loadedCards.Set(0)
}

func (s *SearchState) fetch(ctx context.Context, token uint64, query string, terms []types.FilterTerm, page int, appending bool) {
	result, err := s.fetcher.Fetch(ctx, query, terms, page)

	s.mu.Lock()
	if token != s.sequence {
		s.mu.Unlock()
		noStaleResponses.Inc()
		log.Printf("discarding stale response for %q page %d", query, page)
		return
	}
	s.pending = false
	if err != nil {
		s.err = err
		s.errorMessage = ErrorMessage
		s.mu.Unlock()
		noFetchErrors.Inc()
		log.Printf("search for %q page %d failed: %v", query, page, err)
		s.bus.Publish(ErrorTopic, ErrorEvent{Message: ErrorMessage, Err: err})
		return
	}
	if result == nil {
		result = &types.SearchPage{}
	}
	s.err = nil
	s.errorMessage = ""
	survivors := s.merge(query, terms, page, result, !appending)
	total := s.totalCount
	s.mu.Unlock()

	if appending {
		noNextPages.Inc()
		s.bus.Publish(NextTopic, NextEvent{Page: page, Cards: survivors})
		return
	}
	noSearches.Inc()
	s.bus.Publish(SearchTopic, SearchEvent{Query: query, Total: total})
}

// merge folds a received page into the state, must be called with the lock held.
func (s *SearchState) merge(query string, terms []types.FilterTerm, page int, result *types.SearchPage, replace bool) []types.CourseCard {
	raw := make([]types.CourseCard, 0, len(result.Results))
	for _, r := range result.Results {
		raw = append(raw, types.NewCourseCard(r.Data))
	}
	survivors := facet.Survivors(raw, s.predicate)

	if replace {
		s.clearResults()
	}
	s.query = query
	s.terms = terms
	s.page = page
	s.totalCount = result.Total
	s.latestCount = len(survivors)
	s.received += len(raw)
	s.exhausted = len(raw) == 0
	s.cards = append(s.cards, survivors...)

	aggregations := result.Aggregations
	if aggregations == nil {
		aggregations = types.Aggregations{}
	}
	server := facet.Strip(aggregations, s.predicate)
	categories := slices.Clone(s.facetFields)
	for category := range aggregations {
		if !slices.Contains(categories, category) {
			categories = append(categories, category)
		}
	}
	slices.Sort(categories)
	facet.AddTally(s.localTally, facet.Tally(survivors, categories, s.predicate))
	s.merged = facet.Reconcile(server, s.localTally)
	s.options.UpsertAggregations(s.merged)

	loadedCards.Set(float64(len(s.cards)))
	return slices.Clone(survivors)
}

func (s *SearchState) hasNextPage() bool {
	return !s.exhausted && s.received > 0 && s.received < s.totalCount
}

func (s *SearchState) HasNextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasNextPage()
}

func (s *SearchState) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *SearchState) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *SearchState) Terms() []types.FilterTerm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.terms)
}

func (s *SearchState) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *SearchState) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCount
}

func (s *SearchState) LatestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestCount
}

func (s *SearchState) Cards() []types.CourseCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cards)
}

// LatestCards returns the cards added by the most recent page.
func (s *SearchState) LatestCards() []types.CourseCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cards[len(s.cards)-s.latestCount:])
}

// FacetOptions returns the options ordered by facet, then term.
func (s *SearchState) FacetOptions() []types.FacetOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options.Options()
}

func (s *SearchState) GroupedFacetOptions() map[string][]types.FacetOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options.Grouped()
}

// Aggregations returns the reconciled facet summary of the loaded pages.
func (s *SearchState) Aggregations() types.Aggregations {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.merged.Clone()
}

func (s *SearchState) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorMessage
}

func (s *SearchState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot is a copy of the observable result state.
type Snapshot struct {
	Query        string
	Page         int
	TotalCount   int
	LatestCount  int
	Cards        []types.CourseCard
	FacetOptions []types.FacetOption
}

func (s *SearchState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]types.CourseCard, len(s.cards))
	for i, card := range s.cards {
		card.Attributes = maps.Clone(card.Attributes)
		cards[i] = card
	}
	return Snapshot{
		Query:        s.query,
		Page:         s.page,
		TotalCount:   s.totalCount,
		LatestCount:  s.latestCount,
		Cards:        cards,
		FacetOptions: s.options.Options(),
	}
}
