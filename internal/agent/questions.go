package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/silverland/property-agent/internal/llm"
)

const (
	qaHistoryWindow  = 6
	qaHistoryTrunc   = 150
	qaPropertyTopN   = 3
	qaFeaturesCap    = 5
	qaDescTrunc      = 200
	qaWebContentCap  = 200
	qaWebResultLimit = 3
)

// answerQuestions handles inquiries about shown properties, pulling in
// web results when the question is about schools, transport, or other
// facts the catalog does not hold. Goodbye-shaped messages pass through
// untouched so routing can deal with them.
func (e *Engine) answerQuestions(ctx context.Context, state *ConversationState) {
	state.CurrentNode = NodeAnswerQuestions

	question := state.LastUserMessage()

	// The goodbye node owns farewells; emitting here would double up.
	if MentionsGoodbye(question) {
		return
	}

	propertyContext := formatQAPropertyContext(state.SearchResults)
	history := formatHistory(state.RecentWindow(qaHistoryWindow), qaHistoryWindow, qaHistoryTrunc)

	webResults := e.lookupWebContext(ctx, state, question)

	var prompt string
	if webResults != "" {
		prompt = fmt.Sprintf(qaWithWebSearchPrompt, propertyContext, question, history, webResults)
	} else {
		prompt = fmt.Sprintf(qaPrompt, propertyContext, question, history)
	}

	reply, err := e.completeText(ctx, "question_answering", llm.Request{
		Messages:    []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: prompt}},
		Temperature: conversationTemperature,
	})
	if err != nil {
		e.logger.Error("question answering failed", "error", err)
		state.AppendMessage(RoleAssistant, fallbackQA)
		return
	}
	state.AppendMessage(RoleAssistant, reply)
}

func (e *Engine) lookupWebContext(ctx context.Context, state *ConversationState, question string) string {
	if e.websearch == nil || !e.websearch.Available() || !e.needsExternalInfo(question) {
		return ""
	}

	var projectName, location string
	if len(state.SearchResults) > 0 {
		projectName = state.SearchResults[0].ProjectName
		location = state.SearchResults[0].City
	}
	if location == "" {
		location = state.Preferences.City
	}

	resp, err := e.websearch.Search(ctx, question, projectName, location, qaWebResultLimit)
	if err != nil {
		e.logger.Warn("web search failed", "error", err)
		return ""
	}

	state.RecordTool("web_search")

	var b strings.Builder
	if resp.Answer != "" {
		fmt.Fprintf(&b, "Summary: %s\n\n", resp.Answer)
	}
	for _, r := range resp.Results {
		content := r.Content
		if len(content) > qaWebContentCap {
			content = content[:qaWebContentCap]
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.Title, content)
	}
	return b.String()
}

func formatQAPropertyContext(results []PropertyResult) string {
	if len(results) == 0 {
		return "No specific properties discussed yet."
	}
	top := results
	if len(top) > qaPropertyTopN {
		top = top[:qaPropertyTopN]
	}

	type summary struct {
		Name        string   `json:"name"`
		City        string   `json:"city"`
		Bedrooms    *int     `json:"bedrooms,omitempty"`
		Price       *float64 `json:"price,omitempty"`
		Features    []string `json:"features,omitempty"`
		Description string   `json:"description,omitempty"`
	}

	summaries := make([]summary, 0, len(top))
	for _, prop := range top {
		features := prop.Features
		if len(features) > qaFeaturesCap {
			features = features[:qaFeaturesCap]
		}
		description := prop.Description
		if len(description) > qaDescTrunc {
			description = description[:qaDescTrunc]
		}
		summaries = append(summaries, summary{
			Name:        prop.ProjectName,
			City:        prop.City,
			Bedrooms:    prop.Bedrooms,
			Price:       prop.PriceUSD,
			Features:    features,
			Description: description,
		})
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "No specific properties discussed yet."
	}
	return string(data)
}
