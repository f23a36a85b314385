// Package discovery wires the filter set, the search state and the views of a
// course discovery page together over an event bus.
package discovery

import (
	"context"
	"log"
	"net/url"

	"github.com/matst80/slask-discovery/pkg/events"
	"github.com/matst80/slask-discovery/pkg/facet"
	"github.com/matst80/slask-discovery/pkg/filters"
	"github.com/matst80/slask-discovery/pkg/state"
	"github.com/matst80/slask-discovery/pkg/types"
)

const (
	SubmitTopic      events.Topic = "user:search"
	RefineTopic      events.Topic = "user:refine"
	ClearFilterTopic events.Topic = "user:clear"
	ClearAllTopic    events.Topic = "user:clear_all"
	LoadMoreTopic    events.Topic = "user:next"
	ViewTopic        events.Topic = "user:view"
)

type Coordinator struct {
	bus         *events.Bus
	filters     *filters.FilterSet
	state       *state.SearchState
	views       Views
	ctx         context.Context
	unsubscribe []func()
}

func NewCoordinator(bus *events.Bus, searchState *state.SearchState, views Views) *Coordinator {
	return &Coordinator{
		bus:     bus,
		filters: filters.NewFilterSet(),
		state:   searchState,
		views:   views,
		ctx:     context.Background(),
	}
}

// Start subscribes the coordinator to user and state events. Requests issued
// by the handlers use ctx.
func (c *Coordinator) Start(ctx context.Context) {
	c.ctx = ctx
	c.unsubscribe = []func(){
		c.bus.Subscribe(SubmitTopic, func(payload any) {
			if query, ok := payload.(string); ok {
				c.onSubmit(query)
			}
		}),
		c.bus.Subscribe(RefineTopic, func(payload any) {
			if term, ok := payload.(types.FilterTerm); ok {
				c.onRefine(term)
			}
		}),
		c.bus.Subscribe(ClearFilterTopic, func(payload any) {
			if category, ok := payload.(string); ok {
				c.onClearFilter(category)
			}
		}),
		c.bus.Subscribe(ClearAllTopic, func(any) { c.onSubmit("") }),
		c.bus.Subscribe(LoadMoreTopic, func(any) { c.state.LoadNextPage(c.ctx) }),
		c.bus.Subscribe(ViewTopic, func(payload any) {
			if p, ok := payload.(facet.Predicate); ok {
				c.onView(p)
			}
		}),
		c.bus.Subscribe(state.SearchTopic, func(payload any) {
			if event, ok := payload.(state.SearchEvent); ok {
				c.onSearch(event)
			}
		}),
		c.bus.Subscribe(state.NextTopic, func(payload any) {
			if event, ok := payload.(state.NextEvent); ok {
				c.views.Listing.Append(event.Cards, c.state.HasNextPage())
			}
		}),
		c.bus.Subscribe(state.ErrorTopic, func(payload any) {
			if event, ok := payload.(state.ErrorEvent); ok {
				c.views.Form.ShowError(event.Message)
				c.views.Form.HideLoading()
			}
		}),
	}
}

func (c *Coordinator) Stop() {
	for _, cancel := range c.unsubscribe {
		cancel()
	}
	c.unsubscribe = nil
}

// Bootstrap seeds the page from its URL parameters. A complete type, query
// and name triple is applied like a refinement click, a search_query starts
// a free-text search, anything else an empty search.
func (c *Coordinator) Bootstrap(values url.Values) error {
	params, err := types.GetBootstrapParams(values)
	if err != nil {
		log.Printf("unable to decode bootstrap parameters: %v", err)
		c.Search("")
		return err
	}
	switch {
	case params.HasRefinement():
		c.SelectRefinement(params.Term())
	case params.SearchQuery != "":
		c.Search(params.SearchQuery)
	default:
		c.Search("")
	}
	return nil
}

func (c *Coordinator) Search(query string) {
	c.bus.Publish(SubmitTopic, query)
}

func (c *Coordinator) SelectRefinement(term types.FilterTerm) {
	c.bus.Publish(RefineTopic, term)
}

func (c *Coordinator) ClearFilter(category string) {
	c.bus.Publish(ClearFilterTopic, category)
}

func (c *Coordinator) ClearAll() {
	c.bus.Publish(ClearAllTopic, nil)
}

func (c *Coordinator) LoadMore() {
	c.bus.Publish(LoadMoreTopic, nil)
}

// SetView switches the listing filter and reloads the results with the active filters.
func (c *Coordinator) SetView(p facet.Predicate) {
	c.bus.Publish(ViewTopic, p)
}

// Filters returns the active filters in display order.
func (c *Coordinator) Filters() []types.FilterTerm {
	return c.filters.Terms()
}

func (c *Coordinator) onSubmit(query string) {
	c.filters.Reset()
	c.views.Form.ShowLoading()
	c.state.PerformSearch(c.ctx, query, nil)
}

func (c *Coordinator) onRefine(term types.FilterTerm) {
	if c.filters.Has(term.Type) {
		c.onClearFilter(term.Type)
		return
	}
	if err := c.filters.Add(term, false); err != nil {
		log.Printf("unable to add filter %s: %v", term.Type, err)
		return
	}
	c.views.Form.ShowLoading()
	c.state.RefineSearch(c.ctx, c.filters.Refinements())
}

func (c *Coordinator) onView(p facet.Predicate) {
	c.state.SetPredicate(p)
	c.views.Form.ShowLoading()
	c.state.RefineSearch(c.ctx, c.filters.Refinements())
}

func (c *Coordinator) onClearFilter(category string) {
	c.filters.Remove(category)
	if category == types.SearchQueryType {
		c.onSubmit("")
		return
	}
	c.views.Form.ShowLoading()
	c.state.RefineSearch(c.ctx, c.filters.Refinements())
}

func (c *Coordinator) onSearch(event state.SearchEvent) {
	if event.Total > 0 {
		c.views.Form.ShowFound(event.Query, event.Total)
		if event.Query != "" {
			if err := c.filters.Add(types.QueryTerm(event.Query), true); err != nil {
				log.Printf("unable to add query filter: %v", err)
			}
		}
	} else {
		c.views.Form.ShowNotFound(event.Query)
		c.filters.Reset()
	}
	c.views.Form.HideLoading()
	c.views.FilterBar.Render(c.filters.Terms())
	c.views.Listing.Render(c.state.Cards(), c.state.HasNextPage())
	c.views.Refinements.Render(c.state.GroupedFacetOptions())
}
