// Package llm abstracts the text-completion providers used by the agent.
package llm

import (
	"context"
	"errors"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ErrEmptyCompletion is returned when a provider answers without any text.
// Callers rely on this being a real error so their fallback paths fire.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// ChatMessage is a single prompt message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports prompt/completion token counts when the provider exposes them.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Request describes one completion call.
type Request struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

// Response carries the completion text plus provider metadata.
type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client is the text-completion collaborator contract. Implementations must
// surface failures as errors, never as silently empty text.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
