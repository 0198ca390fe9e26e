package agent

import (
	"context"
	"strings"
)

const retryThreshold = 3

// handleError clears the recorded failure, bumps the retry counter, and
// emits a recovery prompt keyed to where the failure happened. After
// repeated failures the reply escalates to the support contact.
func (e *Engine) handleError(ctx context.Context, state *ConversationState) {
	failedNode := state.CurrentNode
	state.CurrentNode = NodeHandleError

	retryCount := state.RetryCount
	e.logger.Warn("error handler invoked", "error", state.ErrorMessage, "retry", retryCount, "failed_node", failedNode)

	state.RetryCount = retryCount + 1
	state.ErrorMessage = ""

	if retryCount >= retryThreshold {
		state.AppendMessage(RoleAssistant, supportContactMessage)
		return
	}

	var msg string
	switch {
	case strings.Contains(failedNode, "search") || strings.Contains(failedNode, "recommend"):
		msg = "I had trouble searching for properties. Could you tell me again what you're looking for?"
	case strings.Contains(failedNode, "booking") || strings.Contains(failedNode, "lead"):
		msg = "I had an issue processing your booking request. Could you provide your details again?"
	default:
		msg = "I apologize for the confusion. Could you repeat what you're looking for? I'm here to help you find the perfect property."
	}
	state.AppendMessage(RoleAssistant, msg)
}
