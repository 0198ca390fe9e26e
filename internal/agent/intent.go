package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/silverland/property-agent/internal/cache"
	"github.com/silverland/property-agent/internal/llm"
	"github.com/silverland/property-agent/internal/observability/metrics"
	"github.com/silverland/property-agent/pkg/logging"
)

const (
	intentHistoryWindow = 6
	intentContentTrunc  = 200
	classifierMaxTokens = 10
)

// Classifier maps a user message plus a short history window onto the
// closed intent set. Results are cached by normalized message text, so
// repeated messages classify identically within the TTL.
type Classifier struct {
	llmClient llm.Client
	cache     cache.Cache
	cacheTTL  time.Duration
	metrics   *metrics.ConversationMetrics
	logger    *logging.Logger
}

// NewClassifier builds an intent classifier. The cache may be nil;
// cacheTTL <= 0 selects the default intent TTL.
func NewClassifier(llmClient llm.Client, store cache.Cache, cacheTTL time.Duration, m *metrics.ConversationMetrics, logger *logging.Logger) *Classifier {
	if llmClient == nil {
		panic("agent: llm client required")
	}
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultIntentTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Classifier{llmClient: llmClient, cache: store, cacheTTL: cacheTTL, metrics: m, logger: logger}
}

// Classify returns an intent for the last user message in the window.
// Failures and unrecognized labels resolve to IntentOther; the
// classifier never mutates anything beyond its cache.
func (c *Classifier) Classify(ctx context.Context, message string, history []Message) Intent {
	if strings.TrimSpace(message) == "" {
		return IntentOther
	}

	var cacheKey string
	if c.cache != nil {
		cacheKey = cache.Key(cache.NamespaceIntent, map[string]string{
			"message": cache.NormalizeText(message),
		})
		if cached, ok := c.cache.Get(ctx, cacheKey); ok {
			c.metrics.ObserveCacheLookup(cache.NamespaceIntent, true)
			intent := ParseIntent(cached)
			c.logger.Debug("intent cache hit", "intent", intent)
			return intent
		}
		c.metrics.ObserveCacheLookup(cache.NamespaceIntent, false)
	}

	resp, err := c.llmClient.Complete(ctx, llm.Request{
		Messages: []llm.ChatMessage{{
			Role:    llm.ChatRoleUser,
			Content: fmt.Sprintf(intentClassificationPrompt, formatHistory(history, intentHistoryWindow, intentContentTrunc), message),
		}},
		MaxTokens:   classifierMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		c.metrics.ObserveLLMCall("intent", "error")
		c.logger.Error("intent classification failed", "error", err)
		return IntentOther
	}
	c.metrics.ObserveLLMCall("intent", "ok")

	intent := ParseIntent(strings.ToLower(strings.TrimSpace(resp.Text)))

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, string(intent), c.cacheTTL)
	}
	return intent
}

// formatHistory renders the last n messages as "User: ..." lines.
// trunc > 0 caps each message's content.
func formatHistory(history []Message, n, trunc int) string {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	if len(history) == 0 {
		return "No previous messages"
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		role := "Assistant"
		if msg.Role == RoleUser {
			role = "User"
		}
		lines = append(lines, role+": "+truncateRunes(msg.Content, trunc))
	}
	return strings.Join(lines, "\n")
}
