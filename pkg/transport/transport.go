// Package transport implements the search request collaborators: a form
// posting HTTP client, a Meilisearch client and a redis backed cache.
package transport

import (
	"context"

	"github.com/matst80/slask-discovery/pkg/types"
)

type Fetcher interface {
	Fetch(ctx context.Context, query string, terms []types.FilterTerm, page int) (*types.SearchPage, error)
}

const DefaultPageSize = 20
