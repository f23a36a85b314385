package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/matst80/slask-discovery/pkg/discovery"
	"github.com/matst80/slask-discovery/pkg/types"
)

// consoleViews prints the discovery page as plain text.
type consoleViews struct {
	mu    sync.Mutex
	out   io.Writer
	shown int
}

func newConsoleViews(out io.Writer) *consoleViews {
	return &consoleViews{out: out}
}

func (c *consoleViews) Views() discovery.Views {
	return discovery.Views{
		Form:        consoleForm{c},
		FilterBar:   consoleFilterBar{c},
		Refinements: consoleRefinements{c},
		Listing:     consoleListing{c},
	}
}

func (c *consoleViews) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

type consoleForm struct{ *consoleViews }

func (f consoleForm) ShowLoading() { f.printf("searching...\n") }
func (f consoleForm) HideLoading() {}
func (f consoleForm) ShowFound(query string, total int) {
	if query == "" {
		f.printf("%d courses\n", total)
		return
	}
	f.printf("showing %d results for %q\n", total, query)
}
func (f consoleForm) ShowNotFound(query string) {
	f.printf("no results found for %q, showing all courses\n", query)
}
func (f consoleForm) ShowError(message string) { f.printf("%s\n", message) }

type consoleFilterBar struct{ *consoleViews }

func (b consoleFilterBar) Render(terms []types.FilterTerm) {
	if len(terms) == 0 {
		return
	}
	chips := make([]string, 0, len(terms))
	for _, term := range terms {
		chips = append(chips, fmt.Sprintf("[%s: %s]", term.Type, term.Name))
	}
	b.printf("filters %s\n", strings.Join(chips, " "))
}

type consoleRefinements struct{ *consoleViews }

func (r consoleRefinements) Render(options map[string][]types.FacetOption) {
	for _, facet := range slices.Sorted(maps.Keys(options)) {
		terms := make([]string, 0, len(options[facet]))
		for _, option := range options[facet] {
			terms = append(terms, fmt.Sprintf("%s (%d)", option.Term, option.Count))
		}
		r.printf("  %s: %s\n", facet, strings.Join(terms, ", "))
	}
}

type consoleListing struct{ *consoleViews }

func (l consoleListing) Render(cards []types.CourseCard, hasMore bool) {
	l.mu.Lock()
	l.shown = 0
	l.mu.Unlock()
	l.Append(cards, hasMore)
}

func (l consoleListing) Append(cards []types.CourseCard, hasMore bool) {
	l.mu.Lock()
	start := l.shown
	l.shown += len(cards)
	l.mu.Unlock()
	for i, card := range cards {
		l.printf("%3d. %s %s (%s)\n", start+i+1, card.Id, cardTitle(card), card.CourseType)
	}
	if hasMore {
		l.printf("type /more for more results\n")
	}
}

func cardTitle(card types.CourseCard) string {
	if content, ok := card.Attributes["content"].(map[string]any); ok {
		if name, ok := content["display_name"].(string); ok {
			return name
		}
	}
	title, _ := card.Attributes["title"].(string)
	return title
}
