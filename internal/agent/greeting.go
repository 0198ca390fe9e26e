package agent

import (
	"context"
	"fmt"

	"github.com/silverland/property-agent/internal/llm"
)

// greet welcomes the user on the very first exchange. Later turns, and
// first messages that already carry a task request, skip the greeting.
func (e *Engine) greet(ctx context.Context, state *ConversationState) {
	if state.ErrorMessage == "" {
		state.CurrentNode = NodeGreeting
	}

	for _, msg := range state.Messages {
		if msg.Role == RoleAssistant {
			return
		}
	}

	var firstMessage string
	for _, msg := range state.Messages {
		if msg.Role == RoleUser {
			firstMessage = msg.Content
			break
		}
	}
	if firstMessage == "" {
		return
	}

	if containsAny(firstMessage, taskWords) {
		return
	}

	reply, err := e.completeText(ctx, "greeting", llm.Request{
		System: []string{greetingSystemPrompt},
		Messages: []llm.ChatMessage{{
			Role:    llm.ChatRoleUser,
			Content: fmt.Sprintf(greetingUserPrompt, firstMessage),
		}},
		Temperature: conversationTemperature,
	})
	if err != nil {
		e.logger.Error("greeting generation failed", "error", err)
		state.AppendMessage(RoleAssistant, fallbackGreeting)
		return
	}
	state.AppendMessage(RoleAssistant, reply)
}
