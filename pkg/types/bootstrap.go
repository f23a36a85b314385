package types

import (
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

// BootstrapParams are the URL parameters a discovery page can be opened with.
type BootstrapParams struct {
	Type        string `schema:"type"`
	Query       string `schema:"query"`
	Name        string `schema:"name"`
	SearchQuery string `schema:"search_query"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func (b *BootstrapParams) Sanitize() {
	b.Type = strings.TrimSpace(b.Type)
	b.Query = strings.TrimSpace(b.Query)
	b.Name = strings.TrimSpace(b.Name)
	b.SearchQuery = strings.TrimSpace(b.SearchQuery)
}

func (b *BootstrapParams) Term() FilterTerm {
	return FilterTerm{Type: b.Type, Query: b.Query, Name: b.Name}
}

// HasRefinement reports whether the parameters encode a complete refinement.
func (b *BootstrapParams) HasRefinement() bool {
	term := b.Term()
	return term.Valid() && !term.IsSearchQuery()
}

func GetBootstrapParams(query url.Values) (*BootstrapParams, error) {
	params := &BootstrapParams{}
	err := decoder.Decode(params, query)
	params.Sanitize()
	return params, err
}
