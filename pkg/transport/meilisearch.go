package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/meilisearch/meilisearch-go"

	"github.com/matst80/slask-discovery/pkg/common/jsoncompat"
	"github.com/matst80/slask-discovery/pkg/types"
)

type MeilisearchTransport struct {
	index    meilisearch.IndexManager
	facets   []string
	pageSize int
}

func NewMeilisearchTransport(client meilisearch.ServiceManager, indexName string, facets []string, pageSize int) *MeilisearchTransport {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &MeilisearchTransport{
		index:    client.Index(indexName),
		facets:   facets,
		pageSize: pageSize,
	}
}

func (t *MeilisearchTransport) Fetch(ctx context.Context, query string, terms []types.FilterTerm, page int) (*types.SearchPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, &types.TransportError{Op: "Search", Err: err}
	}
	request := &meilisearch.SearchRequest{
		Query:       query,
		Page:        int64(page + 1),
		HitsPerPage: int64(t.pageSize),
		Facets:      t.facets,
	}
	if filter := buildFilter(terms); filter != "" {
		request.Filter = filter
	}

	result, err := t.index.Search(query, request)
	if err != nil {
		return nil, &types.TransportError{Op: "Search", Err: err}
	}
	data, err := jsoncompat.Marshal(result)
	if err != nil {
		return nil, &types.TransportError{Op: "Search", Err: err}
	}
	return pageFromMeilisearch(data)
}

type meilisearchPage struct {
	Hits               []map[string]any `json:"hits"`
	TotalHits          int              `json:"totalHits"`
	EstimatedTotalHits int              `json:"estimatedTotalHits"`
	FacetDistribution  json.RawMessage  `json:"facetDistribution"`
}

func pageFromMeilisearch(data []byte) (*types.SearchPage, error) {
	var raw meilisearchPage
	if err := jsoncompat.Unmarshal(data, &raw); err != nil {
		return nil, &types.TransportError{Op: "decode", Err: err}
	}
	total := raw.TotalHits
	if total == 0 {
		total = raw.EstimatedTotalHits
	}
	results := make([]types.Result, 0, len(raw.Hits))
	for _, hit := range raw.Hits {
		results = append(results, types.Result{Data: hit})
	}
	return &types.SearchPage{
		Total:        total,
		Results:      results,
		Aggregations: facetDistribution(raw.FacetDistribution),
	}, nil
}

// facetDistribution turns the per facet term counts into aggregations, a
// distribution that does not decode yields none.
func facetDistribution(data json.RawMessage) types.Aggregations {
	ret := types.Aggregations{}
	if len(data) == 0 {
		return ret
	}
	var distribution map[string]map[string]int
	if err := jsoncompat.Unmarshal(data, &distribution); err != nil {
		log.Printf("ignoring malformed facet distribution: %v", err)
		return ret
	}
	for facet, terms := range distribution {
		total := 0
		for _, count := range terms {
			total += count
		}
		ret[facet] = types.FacetAggregation{Terms: terms, Total: total}
	}
	return ret
}

var attributeName = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

func escapeFilterValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// buildFilter joins the terms into a Meilisearch filter expression. Terms
// whose category is not a plain attribute name are skipped.
func buildFilter(terms []types.FilterTerm) string {
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		if !attributeName.MatchString(term.Type) {
			log.Printf("skipping filter on invalid attribute %q", term.Type)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = \"%s\"", term.Type, escapeFilterValue(term.Query)))
	}
	return strings.Join(parts, " AND ")
}
