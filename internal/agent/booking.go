package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/silverland/property-agent/internal/catalog"
	"github.com/silverland/property-agent/internal/leads"
	"github.com/silverland/property-agent/internal/llm"
)

// proposeBooking confirms the user's interest in a viewing, pins down
// which property they mean, and asks for a first name.
func (e *Engine) proposeBooking(ctx context.Context, state *ConversationState) {
	state.CurrentNode = NodeProposeBooking

	userMessage := state.LastUserMessage()

	if len(state.SearchResults) > 0 {
		id := state.SearchResults[0].ID
		state.SelectedProjectID = &id

		var recent []string
		for _, msg := range state.RecentWindow(projectMentionWindow) {
			if msg.Role == RoleUser {
				recent = append(recent, msg.Content)
			}
		}
		if prop, ok := MatchPropertyByName(strings.Join(recent, " "), state.SearchResults); ok {
			matched := prop.ID
			state.SelectedProjectID = &matched
		}
	}

	reply, err := e.completeText(ctx, "booking_proposal", llm.Request{
		Messages: []llm.ChatMessage{{
			Role:    llm.ChatRoleUser,
			Content: fmt.Sprintf(bookingProposalPrompt, formatProposalProperties(state.SearchResults), userMessage),
		}},
		Temperature: conversationTemperature,
	})
	if err != nil {
		e.logger.Error("booking proposal generation failed", "error", err)
		state.AppendMessage(RoleAssistant, bookingProposalFallback(state.SearchResults))
		return
	}
	state.AppendMessage(RoleAssistant, reply)
}

// confirmBooking creates the viewing booking once a lead and a project
// are known, with a precondition message naming exactly what is missing.
func (e *Engine) confirmBooking(ctx context.Context, state *ConversationState) {
	state.CurrentNode = NodeConfirmBooking
	state.RecordTool("booking_store")

	if state.LeadID == "" || state.SelectedProjectID == nil {
		state.AppendMessage(RoleAssistant, bookingPreconditionMessage(state))
		return
	}

	notes := fmt.Sprintf("Booking from chat conversation. Preferences: %s", marshalJSON(state.Preferences))
	booking, err := e.bookings.CreateViewing(ctx, state.LeadID, *state.SelectedProjectID, state.ConversationID, notes)
	if err != nil {
		e.metrics.ObserveBooking("failed")
		e.logger.Error("booking creation failed", "error", err, "project_id", *state.SelectedProjectID)

		switch {
		case errors.Is(err, catalog.ErrProjectNotFound):
			state.AppendMessage(RoleAssistant,
				"I apologize, but I couldn't find that property. Could you let me know which property you'd like to view?")
		case errors.Is(err, leads.ErrLeadNotFound):
			state.AppendMessage(RoleAssistant,
				"I need your contact information to complete the booking. Could you share your email address?")
		default:
			state.AppendMessage(RoleAssistant,
				"I apologize, but there was an issue completing your booking. Please try again or contact us directly at "+e.supportEmail+".")
		}
		return
	}

	state.BookingID = booking.ID
	state.BookingConfirmed = true
	e.metrics.ObserveBooking(booking.Status)

	confirmation, err := e.bookings.ConfirmationMessage(ctx, booking)
	if err != nil {
		e.logger.Error("confirmation rendering failed", "error", err, "booking_id", booking.ID)
		confirmation = "Your viewing has been scheduled. Our team will contact you within 24 hours to confirm the date and time."
	}
	state.AppendMessage(RoleAssistant, confirmation)
	e.logger.Info("booking confirmed", "booking_id", booking.ID, "project_id", *state.SelectedProjectID)
}

func bookingPreconditionMessage(state *ConversationState) string {
	switch {
	case state.LeadData.FirstName == "":
		return "I'd love to help you book a viewing! Could you share your first name?"
	case state.LeadData.Email == "":
		return fmt.Sprintf("Thanks %s! What's your email address so I can confirm the viewing?", state.LeadData.FirstName)
	case state.SelectedProjectID == nil:
		return "I apologize, but I need a bit more information to complete your booking. Could you confirm which property you'd like to view?"
	default:
		// Contact details and a property are both known, so the lead
		// record itself failed to persist.
		return "I apologize, but I couldn't save your contact details. Could you share your email address again?"
	}
}

func formatProposalProperties(results []PropertyResult) string {
	top := results
	if len(top) > recommendTopN {
		top = top[:recommendTopN]
	}

	type summary struct {
		Name  string `json:"name"`
		City  string `json:"city"`
		Price string `json:"price"`
	}
	summaries := make([]summary, 0, len(top))
	for _, prop := range top {
		price := "Price on request"
		if prop.PriceUSD != nil {
			price = "$" + formatAmount(*prop.PriceUSD)
		}
		summaries = append(summaries, summary{Name: prop.ProjectName, City: prop.City, Price: price})
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func bookingProposalFallback(results []PropertyResult) string {
	if len(results) > 0 {
		return fmt.Sprintf("I'd be happy to arrange a viewing of %s for you. To proceed, could you share your first name?",
			results[0].ProjectName)
	}
	return fallbackBookingNoResults
}
