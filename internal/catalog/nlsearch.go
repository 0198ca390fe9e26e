package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/silverland/property-agent/internal/llm"
	"github.com/silverland/property-agent/pkg/logging"
)

const nlSearchSystemPrompt = `You translate a natural-language real estate request into search filters.
Respond with a single JSON object and nothing else. Fields (omit any you cannot infer):
{"city": string, "country": string, "bedrooms": int, "price_min": number, "price_max": number,
 "property_type": string, "completion_status": string}
property_type is one of: apartment, villa, townhouse, penthouse, studio, duplex.
completion_status is one of: ready, off_plan, under_construction.
Prices are USD. Do not invent filters the request does not imply.`

// NLSearcher widens a structured search by asking the model to reinterpret
// the buyer's request as looser filters. Used when strict filtering comes
// back thin.
type NLSearcher struct {
	llmClient llm.Client
	provider  SearchProvider
	logger    *logging.Logger
}

func NewNLSearcher(llmClient llm.Client, provider SearchProvider, logger *logging.Logger) *NLSearcher {
	if llmClient == nil {
		panic("catalog: llm client is required")
	}
	if provider == nil {
		panic("catalog: search provider is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NLSearcher{llmClient: llmClient, provider: provider, logger: logger}
}

// Search asks the model for relaxed criteria and runs them through the
// underlying provider.
func (s *NLSearcher) Search(ctx context.Context, request string, limit int) ([]Property, error) {
	resp, err := s.llmClient.Complete(ctx, llm.Request{
		System:      []string{nlSearchSystemPrompt},
		Messages:    []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: request}},
		MaxTokens:   300,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: nl search completion: %w", err)
	}

	criteria, err := parseCriteriaJSON(resp.Text)
	if err != nil {
		s.logger.Warn("nl search returned unparseable criteria", "error", err)
		return nil, fmt.Errorf("catalog: nl search parse: %w", err)
	}
	if criteria.IsZero() {
		return nil, nil
	}
	criteria.Limit = limit

	return s.provider.Filter(ctx, criteria)
}

func parseCriteriaJSON(text string) (Criteria, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return Criteria{}, fmt.Errorf("no JSON object in %q", text)
	}

	var raw struct {
		City             string   `json:"city"`
		Country          string   `json:"country"`
		Bedrooms         *int     `json:"bedrooms"`
		PriceMin         *float64 `json:"price_min"`
		PriceMax         *float64 `json:"price_max"`
		PropertyType     string   `json:"property_type"`
		CompletionStatus string   `json:"completion_status"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return Criteria{}, err
	}

	return Criteria{
		City:             strings.TrimSpace(raw.City),
		Country:          strings.TrimSpace(raw.Country),
		Bedrooms:         raw.Bedrooms,
		PriceMin:         raw.PriceMin,
		PriceMax:         raw.PriceMax,
		PropertyType:     strings.ToLower(strings.TrimSpace(raw.PropertyType)),
		CompletionStatus: strings.ToLower(strings.TrimSpace(raw.CompletionStatus)),
	}, nil
}
