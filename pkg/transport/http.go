package transport

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/schema"

	"github.com/matst80/slask-discovery/pkg/common/jsoncompat"
	"github.com/matst80/slask-discovery/pkg/types"
)

type searchForm struct {
	SearchString string `schema:"search_string"`
	PageSize     int    `schema:"page_size"`
	PageIndex    int    `schema:"page_index"`
}

var encoder = schema.NewEncoder()

// reservedFields are the form fields of searchForm, a filter can not use them.
var reservedFields = map[string]bool{
	"search_string": true,
	"page_size":     true,
	"page_index":    true,
}

// HTTPTransport posts the search as a form and reads a JSON page back.
type HTTPTransport struct {
	Url      string
	PageSize int
	Client   *http.Client
}

func NewHTTPTransport(searchUrl string, pageSize int, timeout time.Duration) *HTTPTransport {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &HTTPTransport{
		Url:      searchUrl,
		PageSize: pageSize,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) form(query string, terms []types.FilterTerm, page int) (url.Values, error) {
	values := url.Values{}
	err := encoder.Encode(searchForm{
		SearchString: query,
		PageSize:     t.PageSize,
		PageIndex:    page,
	}, values)
	if err != nil {
		return nil, err
	}
	for _, term := range terms {
		if reservedFields[term.Type] {
			log.Printf("skipping filter on reserved form field %q", term.Type)
			continue
		}
		values.Set(term.Type, term.Query)
	}
	return values, nil
}

func (t *HTTPTransport) Fetch(ctx context.Context, query string, terms []types.FilterTerm, page int) (*types.SearchPage, error) {
	values, err := t.form(query, terms, page)
	if err != nil {
		return nil, &types.TransportError{Op: "encode", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Url, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, &types.TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, &types.TransportError{Op: "fetch", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &types.TransportError{Op: "fetch", Status: res.StatusCode}
	}

	var raw types.RawSearchPage
	if err := jsoncompat.Decode(res.Body, &raw); err != nil {
		return nil, &types.TransportError{Op: "decode", Err: err}
	}
	return raw.Page(), nil
}
