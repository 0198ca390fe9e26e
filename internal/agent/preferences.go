package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/silverland/property-agent/internal/llm"
)

const preferenceHistoryWindow = 8

// extractedPreferences is the JSON shape the extraction model returns.
// clear_budget is a one-turn signal, never stored.
type extractedPreferences struct {
	City             string   `json:"city"`
	Country          string   `json:"country"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *int     `json:"bathrooms"`
	BudgetMin        *float64 `json:"budget_min"`
	BudgetMax        *float64 `json:"budget_max"`
	PropertyType     string   `json:"property_type"`
	CompletionStatus string   `json:"completion_status"`
	Features         []string `json:"features"`
	ClearBudget      bool     `json:"clear_budget"`
}

// discoverPreferences extracts preference updates from the latest
// message, merges them over stored preferences, recomputes the
// completion predicate, and asks for the single next missing field.
func (e *Engine) discoverPreferences(ctx context.Context, state *ConversationState) {
	state.CurrentNode = NodeDiscoverPreferences

	userMessage := state.LastUserMessage()
	prefs := state.Preferences

	extracted, extractErr := e.extractPreferences(ctx, state)
	if extractErr != nil {
		e.logger.Error("preference extraction failed", "error", extractErr)
	}

	// clear_budget removes both bounds before any merge.
	if extracted.ClearBudget {
		prefs.BudgetMin = nil
		prefs.BudgetMax = nil
		e.logger.Info("cleared budget constraints", "source", "extraction")
	}

	// Deterministic safety net: the phrase scan clears budget even when
	// extraction failed or omitted the flag.
	userClearedBudget := MentionsNoBudget(userMessage)
	if userClearedBudget {
		prefs.BudgetMin = nil
		prefs.BudgetMax = nil
		e.logger.Info("cleared budget constraints", "source", "phrase scan")
	}

	// Non-empty extracted values overwrite; a new city replaces.
	if extracted.City != "" {
		prefs.City = extracted.City
	}
	if extracted.Country != "" {
		prefs.Country = extracted.Country
	}
	if extracted.Bedrooms != nil {
		prefs.Bedrooms = extracted.Bedrooms
	}
	if extracted.Bathrooms != nil {
		prefs.Bathrooms = extracted.Bathrooms
	}
	if extracted.BudgetMin != nil {
		prefs.BudgetMin = extracted.BudgetMin
	}
	if extracted.BudgetMax != nil {
		prefs.BudgetMax = extracted.BudgetMax
	}
	if extracted.PropertyType != "" {
		prefs.PropertyType = extracted.PropertyType
	}
	if extracted.CompletionStatus != "" {
		prefs.CompletionStatus = extracted.CompletionStatus
	}
	if len(extracted.Features) > 0 {
		prefs.Features = extracted.Features
	}

	prefs = SanitizePreferences(prefs)
	state.Preferences = prefs

	hasCity := prefs.City != ""
	hasBudgetOrBedrooms := prefs.BudgetMax != nil || prefs.Bedrooms != nil
	state.PreferencesComplete = hasCity && (hasBudgetOrBedrooms || userClearedBudget)

	var missing []string
	if !hasCity {
		missing = append(missing, "city/location")
	}
	if !userClearedBudget && !prefs.HasBudget() {
		missing = append(missing, "budget range")
	}
	if prefs.Bedrooms == nil {
		missing = append(missing, "number of bedrooms")
	}

	if extractErr != nil {
		state.AppendMessage(RoleAssistant, fallbackPreferences)
		return
	}

	missingInfo := "None - we have enough to search"
	if len(missing) > 0 {
		missingInfo = strings.Join(missing, ", ")
	}

	reply, err := e.completeText(ctx, "preference_response", llm.Request{
		Messages: []llm.ChatMessage{{
			Role:    llm.ChatRoleUser,
			Content: fmt.Sprintf(preferenceResponsePrompt, marshalJSON(prefs), missingInfo, userMessage),
		}},
		Temperature: conversationTemperature,
	})
	if err != nil {
		e.logger.Error("preference follow-up generation failed", "error", err)
		state.AppendMessage(RoleAssistant, fallbackPreferences)
		return
	}
	state.AppendMessage(RoleAssistant, reply)
}

func (e *Engine) extractPreferences(ctx context.Context, state *ConversationState) (extractedPreferences, error) {
	conversation := formatHistory(state.RecentWindow(preferenceHistoryWindow), preferenceHistoryWindow, 0)

	text, err := e.completeText(ctx, "preference_extraction", llm.Request{
		Messages: []llm.ChatMessage{{
			Role:    llm.ChatRoleUser,
			Content: fmt.Sprintf(preferenceExtractionPrompt, marshalJSON(state.Preferences), conversation),
		}},
		Temperature: 0,
	})
	if err != nil {
		return extractedPreferences{}, err
	}

	var extracted extractedPreferences
	if err := unmarshalLooseJSON(text, &extracted); err != nil {
		return extractedPreferences{}, fmt.Errorf("agent: parse preference extraction: %w", err)
	}
	return extracted, nil
}

// unmarshalLooseJSON tolerates prose or code fences around the model's
// JSON object by slicing from the first "{" to the last "}".
func unmarshalLooseJSON(text string, v any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON object in %q", text)
	}
	return json.Unmarshal([]byte(text[start:end+1]), v)
}

func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
