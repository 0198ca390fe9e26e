package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ConversationTTL bounds how long an idle conversation survives.
const ConversationTTL = 24 * time.Hour

// StateStore persists conversation state between turns. Load returns
// (nil, nil) for a conversation that has never been seen or has expired.
type StateStore interface {
	Load(ctx context.Context, conversationID string) (*ConversationState, error)
	Save(ctx context.Context, conversationID string, state *ConversationState) error
}

type RedisStateStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	if client == nil {
		panic("agent: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = ConversationTTL
	}
	return &RedisStateStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("propertyagent.internal.agent.state"),
	}
}

func (s *RedisStateStore) Load(ctx context.Context, conversationID string) (*ConversationState, error) {
	ctx, span := s.tracer.Start(ctx, "agent.load_state")
	defer span.End()

	data, err := s.redis.Get(ctx, conversationStateKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("agent: failed to load conversation state: %w", err)
	}

	var state ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("agent: failed to decode conversation state: %w", err)
	}
	return &state, nil
}

func (s *RedisStateStore) Save(ctx context.Context, conversationID string, state *ConversationState) error {
	ctx, span := s.tracer.Start(ctx, "agent.save_state")
	defer span.End()

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("agent: failed to marshal conversation state: %w", err)
	}
	if err := s.redis.Set(ctx, conversationStateKey(conversationID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("agent: failed to persist conversation state: %w", err)
	}
	return nil
}

func conversationStateKey(id string) string {
	return fmt.Sprintf("conversation_state:%s", id)
}

// MemoryStateStore keeps state in process memory. Suited to tests and
// single-instance development runs.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]*ConversationState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]*ConversationState)}
}

func (s *MemoryStateStore) Load(_ context.Context, conversationID string) (*ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[conversationID]
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (s *MemoryStateStore) Save(_ context.Context, conversationID string, state *ConversationState) error {
	if state == nil {
		return fmt.Errorf("agent: cannot persist nil state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[conversationID] = state.Clone()
	return nil
}
