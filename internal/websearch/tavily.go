package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/silverland/property-agent/internal/cache"
	"github.com/silverland/property-agent/pkg/logging"
)

const (
	defaultEndpoint = "https://api.tavily.com"
	defaultTimeout  = 15 * time.Second
)

// Result is one web search hit.
type Result struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

// Response is the formatted outcome of a search.
type Response struct {
	Answer  string   `json:"answer,omitempty"`
	Results []Result `json:"results"`
}

// TavilyClient searches the web for area and project facts the catalog
// does not hold (schools, transport, nearby amenities).
type TavilyClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *logging.Logger
}

// Option configures a TavilyClient.
type Option func(*TavilyClient)

// WithEndpoint overrides the API base URL, mostly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *TavilyClient) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *TavilyClient) { c.httpClient = hc }
}

// WithCache enables response caching.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *TavilyClient) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// NewTavilyClient creates a web search client. An empty API key yields a
// client whose Available() is false; callers fall back to model knowledge.
func NewTavilyClient(apiKey string, logger *logging.Logger, opts ...Option) *TavilyClient {
	if logger == nil {
		logger = logging.Default()
	}
	c := &TavilyClient{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cacheTTL: cache.DefaultWebSearchTTL,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the client is configured.
func (c *TavilyClient) Available() bool {
	return c.apiKey != ""
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		Content string  `json:"content"`
		URL     string  `json:"url"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs a web search scoped with project and location context.
func (c *TavilyClient) Search(ctx context.Context, query, projectName, location string, maxResults int) (*Response, error) {
	if !c.Available() {
		return nil, fmt.Errorf("websearch: not configured")
	}
	if maxResults <= 0 {
		maxResults = 3
	}

	fullQuery := buildQuery(query, projectName, location)

	var cacheKey string
	if c.cache != nil {
		cacheKey = cache.Key(cache.NamespaceWebSearch, map[string]string{
			"query":    cache.NormalizeText(query),
			"location": cache.NormalizeText(location),
		})
		if cached, ok := c.cache.Get(ctx, cacheKey); ok {
			var resp Response
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				c.logger.Debug("web search cache hit", "query", query)
				return &resp, nil
			}
		}
	}

	body, err := json.Marshal(searchRequest{
		APIKey:        c.apiKey,
		Query:         fullQuery,
		SearchDepth:   "basic",
		MaxResults:    maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, fmt.Errorf("websearch: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("websearch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("websearch: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("websearch: read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("websearch: status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var raw searchResponse
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("websearch: decode response: %w", err)
	}

	resp := &Response{Answer: raw.Answer, Results: make([]Result, 0, len(raw.Results))}
	for _, r := range raw.Results {
		resp.Results = append(resp.Results, Result{Title: r.Title, Content: r.Content, URL: r.URL, Score: r.Score})
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			c.cache.Set(ctx, cacheKey, string(encoded), c.cacheTTL)
		}
	}

	c.logger.Info("web search completed", "query", fullQuery, "results", len(resp.Results))
	return resp, nil
}

func buildQuery(query, projectName, location string) string {
	var parts []string
	if location != "" {
		parts = append(parts, location)
	}
	if projectName != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(projectName)) {
		parts = append(parts, projectName)
	}
	parts = append(parts, query)
	return strings.Join(parts, " ")
}

// externalInfoKeywords name topics the catalog cannot answer from its own
// data, like schools, transport, and nearby amenities.
var externalInfoKeywords = []string{
	"school", "schools", "university", "college", "education",
	"transport", "transportation", "metro", "subway", "bus", "train",
	"station", "airport", "commute",
	"hospital", "clinic", "medical", "healthcare", "doctor",
	"restaurant", "restaurants", "cafe", "dining", "food",
	"mall", "shopping", "supermarket", "grocery",
	"park", "parks", "gym", "fitness", "sports",
	"entertainment", "cinema", "theater",
	"neighborhood", "neighbourhood", "area", "community",
	"nearby", "close to", "near", "around", "surrounding",
	"safety", "crime", "safe",
}

// NeedsExternalInfo reports whether a question likely requires web data
// rather than catalog fields.
func NeedsExternalInfo(question string) bool {
	lowered := strings.ToLower(question)
	for _, kw := range externalInfoKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
