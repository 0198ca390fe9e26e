package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/silverland/property-agent/internal/leads"
	"github.com/silverland/property-agent/internal/llm"
)

const projectMentionWindow = 6

// extractedLead is the JSON shape the lead-extraction model returns.
type extractedLead struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// captureLead progressively collects contact details. The deterministic
// pass runs first and wins every conflict with the model pass.
func (e *Engine) captureLead(ctx context.Context, state *ConversationState) {
	state.CurrentNode = NodeCaptureLead

	userMessage := state.LastUserMessage()
	lead := state.LeadData

	var extracted LeadData

	if lead.Email == "" {
		if email := ExtractEmail(userMessage); email != "" {
			extracted.Email = email
			e.logger.Info("extracted email deterministically")
		}
	}
	if lead.Phone == "" {
		if phone := ExtractPhone(userMessage); phone != "" {
			extracted.Phone = phone
		}
	}
	if lead.FirstName == "" {
		first, last := ExtractName(userMessage, state.SearchResults)
		if first != "" {
			extracted.FirstName = first
			extracted.LastName = last
		}
	}

	// The model pass fills only what the deterministic pass left empty.
	modelLead, err := e.extractLead(ctx, lead, userMessage)
	if err != nil {
		e.logger.Warn("lead extraction model pass failed", "error", err)
	} else {
		if extracted.FirstName == "" {
			extracted.FirstName = modelLead.FirstName
		}
		if extracted.LastName == "" {
			extracted.LastName = modelLead.LastName
		}
		if extracted.Email == "" {
			extracted.Email = modelLead.Email
		}
		if extracted.Phone == "" {
			extracted.Phone = modelLead.Phone
		}
	}

	if extracted.FirstName != "" {
		lead.FirstName = extracted.FirstName
	}
	if extracted.LastName != "" {
		lead.LastName = extracted.LastName
	}
	if extracted.Email != "" {
		lead.Email = extracted.Email
	}
	if extracted.Phone != "" {
		lead.Phone = extracted.Phone
	}

	lead = SanitizeLeadData(lead)
	state.LeadData = lead

	e.resolveSelectedProject(state)

	if lead.FirstName != "" && lead.Email != "" {
		state.LeadCaptured = true
		state.RecordTool("lead_store")

		saved, err := e.leads.Save(ctx, &leads.SaveLeadRequest{
			ConversationID: state.ConversationID,
			FirstName:      lead.FirstName,
			LastName:       lead.LastName,
			Email:          lead.Email,
			Phone:          lead.Phone,
			Preferences:    preferencesMap(state.Preferences),
			Source:         "website_chat",
		})
		if err != nil {
			// Booking confirmation re-checks and surfaces the problem.
			e.logger.Error("lead save failed", "error", err)
		} else {
			state.LeadID = saved.ID
			e.metrics.ObserveLeadCaptured()
			e.logger.Info("lead saved", "lead_id", saved.ID)
		}
		return
	}

	var missing []string
	if lead.FirstName == "" {
		missing = append(missing, "first name")
	}
	if lead.Email == "" {
		missing = append(missing, "email address")
	}

	reply, err := e.completeText(ctx, "lead_followup", llm.Request{
		Messages: []llm.ChatMessage{{
			Role:    llm.ChatRoleUser,
			Content: fmt.Sprintf(leadFollowupPrompt, marshalJSON(lead), strings.Join(missing, ", "), userMessage),
		}},
		Temperature: conversationTemperature,
	})
	if err != nil {
		e.logger.Error("lead follow-up generation failed", "error", err)
		state.AppendMessage(RoleAssistant, leadFollowupFallback(lead))
		return
	}
	state.AppendMessage(RoleAssistant, reply)
}

func (e *Engine) extractLead(ctx context.Context, current LeadData, message string) (extractedLead, error) {
	text, err := e.completeText(ctx, "lead_extraction", llm.Request{
		Messages: []llm.ChatMessage{{
			Role:    llm.ChatRoleUser,
			Content: fmt.Sprintf(leadExtractionPrompt, marshalJSON(current), message),
		}},
		Temperature: 0,
	})
	if err != nil {
		return extractedLead{}, err
	}

	var extracted extractedLead
	if err := unmarshalLooseJSON(text, &extracted); err != nil {
		return extractedLead{}, fmt.Errorf("agent: parse lead extraction: %w", err)
	}
	return extracted, nil
}

// resolveSelectedProject defaults to the top result, then overrides with
// the first property whose name words appear in recent user messages.
func (e *Engine) resolveSelectedProject(state *ConversationState) {
	if state.SelectedProjectID != nil || len(state.SearchResults) == 0 {
		return
	}

	id := state.SearchResults[0].ID
	state.SelectedProjectID = &id

	var recent []string
	for _, msg := range state.RecentWindow(projectMentionWindow) {
		if msg.Role == RoleUser {
			recent = append(recent, strings.ToLower(msg.Content))
		}
	}
	if prop, ok := MatchPropertyByName(strings.Join(recent, " "), state.SearchResults); ok {
		matched := prop.ID
		state.SelectedProjectID = &matched
		e.logger.Info("matched mentioned property", "project", prop.ProjectName, "id", matched)
	}
}

func leadFollowupFallback(lead LeadData) string {
	switch {
	case lead.FirstName == "":
		return "Could you share your first name?"
	case lead.Email == "":
		return fmt.Sprintf("Thanks %s! What's your email address?", lead.FirstName)
	default:
		return "I just need a bit more information. What's your email address?"
	}
}

func preferencesMap(p Preferences) map[string]any {
	out := map[string]any{}
	if p.City != "" {
		out["city"] = p.City
	}
	if p.Country != "" {
		out["country"] = p.Country
	}
	if p.Bedrooms != nil {
		out["bedrooms"] = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		out["bathrooms"] = *p.Bathrooms
	}
	if p.BudgetMin != nil {
		out["budget_min"] = *p.BudgetMin
	}
	if p.BudgetMax != nil {
		out["budget_max"] = *p.BudgetMax
	}
	if p.PropertyType != "" {
		out["property_type"] = p.PropertyType
	}
	if p.CompletionStatus != "" {
		out["completion_status"] = p.CompletionStatus
	}
	if len(p.Features) > 0 {
		out["features"] = p.Features
	}
	return out
}
