package agent

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(conversationID string) *ConversationState {
	state := NewState(conversationID)
	state.AppendMessage(RoleUser, "2 bedrooms in Dubai")
	state.AppendMessage(RoleAssistant, "Noted.")
	state.Preferences = Preferences{City: "Dubai", Bedrooms: intPtr(2)}
	state.SearchResults = []PropertyResult{{ID: 1, ProjectName: "Marina Heights", MatchScore: 0.9}}
	state.UserIntent = IntentSharePreferences
	return state
}

func TestRedisStateStoreRoundTrip(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	store := NewRedisStateStore(client, 0)
	ctx := context.Background()

	original := sampleState("conv-1")
	require.NoError(t, store.Save(ctx, "conv-1", original))

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, original.ConversationID, loaded.ConversationID)
	assert.Equal(t, original.Messages, loaded.Messages)
	assert.Equal(t, original.Preferences, loaded.Preferences)
	assert.Equal(t, original.SearchResults, loaded.SearchResults)
	assert.Equal(t, original.UserIntent, loaded.UserIntent)
}

func TestRedisStateStoreUnknownConversationIsAbsent(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	store := NewRedisStateStore(client, 0)

	loaded, err := store.Load(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStateStoreExpires(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	store := NewRedisStateStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "conv-1", sampleState("conv-1")))
	server.FastForward(2 * time.Minute)

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStateStoreBackendFailure(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	store := NewRedisStateStore(client, 0)
	server.Close()

	_, err := store.Load(context.Background(), "conv-1")
	assert.Error(t, err)

	assert.Error(t, store.Save(context.Background(), "conv-1", sampleState("conv-1")))
}

func TestMemoryStateStoreIsolatesCopies(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	original := sampleState("conv-1")
	require.NoError(t, store.Save(ctx, "conv-1", original))

	// Mutating the saved-from or loaded state must not leak into the store.
	original.AppendMessage(RoleUser, "changed after save")

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Messages, 2)

	loaded.Preferences.City = "Chicago"
	again, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Dubai", again.Preferences.City)
}

func TestMemoryStateStoreMissingConversation(t *testing.T) {
	store := NewMemoryStateStore()
	loaded, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
