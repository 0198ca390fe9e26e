package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/silverland/property-agent/internal/llm"
)

const recommendTopN = 3

// recommendProperties presents the top matches conversationally, or a
// no-results alternative when the search came back empty.
func (e *Engine) recommendProperties(ctx context.Context, state *ConversationState) {
	state.CurrentNode = NodeRecommendProperties

	results := state.SearchResults

	var (
		reply string
		err   error
	)
	if len(results) > 0 {
		reply, err = e.completeText(ctx, "recommendation", llm.Request{
			Messages: []llm.ChatMessage{{
				Role:    llm.ChatRoleUser,
				Content: fmt.Sprintf(recommendationPrompt, marshalJSON(state.Preferences), formatTopProperties(results)),
			}},
			Temperature: conversationTemperature,
		})
	} else {
		reply, err = e.completeText(ctx, "no_results", llm.Request{
			Messages: []llm.ChatMessage{{
				Role:    llm.ChatRoleUser,
				Content: fmt.Sprintf(noResultsPrompt, marshalJSON(state.Preferences)),
			}},
			Temperature: conversationTemperature,
		})
	}
	if err != nil {
		e.logger.Error("recommendation generation failed", "error", err)
		state.AppendMessage(RoleAssistant, recommendationFallback(results))
		return
	}
	state.AppendMessage(RoleAssistant, reply)
}

func formatTopProperties(results []PropertyResult) string {
	top := results
	if len(top) > recommendTopN {
		top = top[:recommendTopN]
	}

	type summary struct {
		Name       string `json:"name"`
		City       string `json:"city"`
		Bedrooms   *int   `json:"bedrooms,omitempty"`
		Bathrooms  *int   `json:"bathrooms,omitempty"`
		Price      string `json:"price"`
		Area       string `json:"area,omitempty"`
		Type       string `json:"type,omitempty"`
		Status     string `json:"status,omitempty"`
		MatchScore string `json:"match_score"`
	}

	summaries := make([]summary, 0, len(top))
	for _, prop := range top {
		s := summary{
			Name:       prop.ProjectName,
			City:       prop.City,
			Bedrooms:   prop.Bedrooms,
			Bathrooms:  prop.Bathrooms,
			Price:      "Price on request",
			Type:       prop.PropertyType,
			Status:     prop.CompletionStatus,
			MatchScore: fmt.Sprintf("%.0f%%", prop.MatchScore*100),
		}
		if prop.PriceUSD != nil {
			s.Price = "$" + formatAmount(*prop.PriceUSD)
		}
		if prop.AreaSqm != nil {
			s.Area = fmt.Sprintf("%.0f sqm", *prop.AreaSqm)
		}
		summaries = append(summaries, s)
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

func recommendationFallback(results []PropertyResult) string {
	if len(results) == 0 {
		return fallbackNoResults
	}
	top := results[0]
	msg := fmt.Sprintf("I found some options for you. The top match is %s in %s", top.ProjectName, top.City)
	if top.PriceUSD != nil {
		msg += " at $" + formatAmount(*top.PriceUSD)
	}
	if top.Bedrooms != nil {
		msg += fmt.Sprintf(" with %d bedrooms", *top.Bedrooms)
	}
	return msg + ". Would you like more details or to schedule a viewing?"
}
