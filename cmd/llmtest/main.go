// Command llmtest sends a short scripted conversation to the configured
// completion provider and prints the reply plus token usage. Handy for
// verifying credentials and model ids before starting the API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"

	"github.com/silverland/property-agent/cmd/mainconfig"
	"github.com/silverland/property-agent/internal/config"
	"github.com/silverland/property-agent/internal/llm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, providerName, err := buildClient(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build LLM client: %v", err)
	}

	req := llm.Request{
		System: []string{
			"You are a friendly real estate assistant for Silver Land Properties. Keep responses brief.",
		},
		Messages: []llm.ChatMessage{
			{Role: llm.ChatRoleUser, Content: "Hi, I'm looking for a 2 bedroom apartment in Dubai under $500k. What do you have?"},
			{Role: llm.ChatRoleAssistant, Content: "Great! We have several projects in that range, including Dubai Marina waterfront apartments. Would you like me to check availability?"},
			{Role: llm.ChatRoleUser, Content: "Yes please, and can I book a viewing this week?"},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	}

	fmt.Printf("Provider: %s\n", providerName)

	start := time.Now()
	resp, err := client.Complete(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("completion failed after %v: %v\n", elapsed.Round(time.Millisecond), err)
		os.Exit(1)
	}

	fmt.Printf("Response (%v):\n%s\n", elapsed.Round(time.Millisecond), resp.Text)
	fmt.Printf("Tokens: in=%d out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
}

func buildClient(ctx context.Context, cfg *config.Config) (llm.Client, string, error) {
	if cfg.LLMProvider == "openai" {
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, "", err
		}
		return client, "openai/" + cfg.OpenAIModel, nil
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	runtime := bedrockruntime.NewFromConfig(awsCfg)
	return llm.NewBedrockClient(runtime, cfg.BedrockModelID), "bedrock/" + cfg.BedrockModelID, nil
}
