package agent

import "context"

// sayGoodbye closes the conversation, with a different farewell when a
// viewing was just confirmed.
func (e *Engine) sayGoodbye(ctx context.Context, state *ConversationState) {
	state.CurrentNode = NodeGoodbye

	if state.BookingConfirmed {
		state.AppendMessage(RoleAssistant, goodbyeAfterBooking)
		return
	}
	state.AppendMessage(RoleAssistant, goodbyeGeneral)
}
