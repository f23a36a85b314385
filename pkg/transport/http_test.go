package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/slask-discovery/pkg/types"
)

func TestHTTPTransportPostsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "python", r.PostForm.Get("search_string"))
		assert.Equal(t, "10", r.PostForm.Get("page_size"))
		assert.Equal(t, "2", r.PostForm.Get("page_index"))
		assert.Equal(t, "cs", r.PostForm.Get("subject"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total": 31,
			"results": [{"data": {"id": "a", "course_type": "video", "subject": ["cs"]}}],
			"aggregations": {"subject": {"terms": {"cs": 31}, "total": 31, "other": 0}}
		}`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, 10, time.Second)
	page, err := transport.Fetch(context.Background(), "python", []types.FilterTerm{{Type: "subject", Query: "cs", Name: "CS"}}, 2)
	require.NoError(t, err)

	assert.Equal(t, 31, page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "a", page.Results[0].Data["id"])
	assert.Equal(t, map[string]int{"cs": 31}, page.Aggregations["subject"].Terms)
}

func TestHTTPTransportFiltersCanNotOverridePaging(t *testing.T) {
	transport := NewHTTPTransport("http://localhost", 10, time.Second)
	values, err := transport.form("python", []types.FilterTerm{
		{Type: "page_index", Query: "99", Name: "Page"},
		{Type: "search_string", Query: "other", Name: "Other"},
		{Type: "subject", Query: "cs", Name: "CS"},
	}, 2)
	require.NoError(t, err)

	assert.Equal(t, "2", values.Get("page_index"))
	assert.Equal(t, "python", values.Get("search_string"))
	assert.Equal(t, "10", values.Get("page_size"))
	assert.Equal(t, "cs", values.Get("subject"))
}

func TestHTTPTransportToleratesBrokenAggregations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "results": [{"data": {"id": "a"}}], "aggregations": "oops"}`))
	}))
	defer server.Close()

	page, err := NewHTTPTransport(server.URL, 0, time.Second).Fetch(context.Background(), "", nil, 0)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
	assert.Empty(t, page.Aggregations)
}

func TestHTTPTransportStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL, 0, time.Second).Fetch(context.Background(), "", nil, 0)
	var transportErr *types.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusBadGateway, transportErr.Status)
}

func TestHTTPTransportNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewHTTPTransport(server.URL, 0, time.Second).Fetch(context.Background(), "", nil, 0)
	var transportErr *types.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "fetch", transportErr.Op)
}
