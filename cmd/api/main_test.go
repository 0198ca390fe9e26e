package main

import (
	"context"
	"testing"

	appconfig "github.com/silverland/property-agent/internal/config"
	"github.com/silverland/property-agent/pkg/logging"
)

func TestBuildLLMClientOpenAIRequiresKey(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{LLMProvider: "openai"}

	if _, err := buildLLMClient(context.Background(), cfg, logger); err == nil {
		t.Fatal("expected error for openai provider without API key")
	}
}

func TestBuildLLMClientOpenAI(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		LLMProvider:  "openai",
		OpenAIAPIKey: "sk-test",
		OpenAIModel:  "gpt-4o-mini",
	}

	client, err := buildLLMClient(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected a client")
	}
}

func TestBuildLLMClientDefaultsToBedrock(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		LLMProvider:    "bedrock",
		AWSRegion:      "us-east-1",
		BedrockModelID: "anthropic.claude-3-5-sonnet-20240620-v1:0",
	}
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	client, err := buildLLMClient(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected a client")
	}
}
