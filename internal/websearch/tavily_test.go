package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverland/property-agent/internal/cache"
	"github.com/silverland/property-agent/pkg/logging"
)

func TestSearchBuildsContextualQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotQuery = req.Query
		assert.Equal(t, "basic", req.SearchDepth)
		assert.True(t, req.IncludeAnswer)

		json.NewEncoder(w).Encode(searchResponse{
			Answer: "Two schools within 2km.",
			Results: []struct {
				Title   string  `json:"title"`
				Content string  `json:"content"`
				URL     string  `json:"url"`
				Score   float64 `json:"score"`
			}{
				{Title: "Schools near Dubai Marina", Content: "...", URL: "https://example.com", Score: 0.9},
			},
		})
	}))
	defer server.Close()

	client := NewTavilyClient("test-key", logging.Default(), WithEndpoint(server.URL))
	resp, err := client.Search(context.Background(), "are there good schools nearby?", "Marina Heights", "Dubai Marina", 3)
	require.NoError(t, err)

	assert.Equal(t, "Dubai Marina Marina Heights are there good schools nearby?", gotQuery)
	assert.Equal(t, "Two schools within 2km.", resp.Answer)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Schools near Dubai Marina", resp.Results[0].Title)
}

func TestSearchSkipsProjectAlreadyInQuery(t *testing.T) {
	assert.Equal(t, "Dubai tell me about Marina Heights",
		buildQuery("tell me about Marina Heights", "Marina Heights", "Dubai"))
}

func TestSearchUsesCache(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(searchResponse{Answer: "cached answer"})
	}))
	defer server.Close()

	store := cache.NewMemoryCache()
	client := NewTavilyClient("test-key", logging.Default(),
		WithEndpoint(server.URL), WithCache(store, time.Minute))

	for i := 0; i < 3; i++ {
		resp, err := client.Search(context.Background(), "metro access?", "", "Dubai", 3)
		require.NoError(t, err)
		assert.Equal(t, "cached answer", resp.Answer)
	}
	assert.Equal(t, 1, calls)
}

func TestSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTavilyClient("test-key", logging.Default(), WithEndpoint(server.URL))
	_, err := client.Search(context.Background(), "anything", "", "", 3)
	assert.ErrorContains(t, err, "status 429")
}

func TestSearchUnconfigured(t *testing.T) {
	client := NewTavilyClient("", logging.Default())
	assert.False(t, client.Available())

	_, err := client.Search(context.Background(), "anything", "", "", 3)
	assert.Error(t, err)
}

func TestNeedsExternalInfo(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"are there good schools nearby?", true},
		{"how far is the metro station?", true},
		{"is the neighborhood safe?", true},
		{"what is the price per square meter?", false},
		{"how many bedrooms does it have?", false},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsExternalInfo(tt.question))
		})
	}
}
