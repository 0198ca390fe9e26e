package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatAPI struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestOpenAICompleteMapsMessages(t *testing.T) {
	api := &fakeChatAPI{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Content: "  hello there  "},
				FinishReason: openai.FinishReasonStop,
			}},
			Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 4, TotalTokens: 14},
		},
	}
	client := NewOpenAIClientFromAPI(api, "gpt-4o-mini")

	resp, err := client.Complete(context.Background(), Request{
		System:      []string{"you are a property assistant"},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
		MaxTokens:   128,
		Temperature: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, int32(14), resp.Usage.TotalTokens)

	require.Len(t, api.req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, api.req.Messages[0].Role)
	assert.Equal(t, "gpt-4o-mini", api.req.Model)
	assert.Equal(t, 128, api.req.MaxTokens)
}

func TestNewOpenAIClientDefaultsModel(t *testing.T) {
	client, err := NewOpenAIClient("sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.defaultModel)
}

func TestOpenAICompleteEmptyChoicesIsError(t *testing.T) {
	client := NewOpenAIClientFromAPI(&fakeChatAPI{}, "gpt-4o-mini")

	_, err := client.Complete(context.Background(), Request{
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
	})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAICompletePropagatesAPIError(t *testing.T) {
	api := &fakeChatAPI{err: errors.New("rate limited")}
	client := NewOpenAIClientFromAPI(api, "gpt-4o-mini")

	_, err := client.Complete(context.Background(), Request{
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
