package agent

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/silverland/property-agent/pkg/logging"
)

// ChatRequest is what the chat widget posts.
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// ChatResponse returns the assistant reply plus a state summary the
// widget uses to render progress.
type ChatResponse struct {
	ConversationID      string           `json:"conversation_id"`
	Reply               string           `json:"reply"`
	Intent              string           `json:"intent"`
	CurrentNode         string           `json:"current_node"`
	PreferencesComplete bool             `json:"preferences_complete"`
	LeadCaptured        bool             `json:"lead_captured"`
	BookingConfirmed    bool             `json:"booking_confirmed"`
	Properties          []PropertyResult `json:"properties,omitempty"`
}

// Handler exposes the dialogue engine over HTTP.
type Handler struct {
	engine *Engine
	store  StateStore
	logger *logging.Logger
}

func NewHandler(engine *Engine, store StateStore, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("agent: engine cannot be nil")
	}
	if store == nil {
		panic("agent: state store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, store: store, logger: logger}
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	ctx := r.Context()

	prior, err := h.store.Load(ctx, req.ConversationID)
	if err != nil {
		h.logger.Error("failed to load conversation state", "conversation_id", req.ConversationID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	state, err := h.engine.ProcessMessage(ctx, req.ConversationID, req.Message, prior)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}
		h.logger.Error("failed to process message", "conversation_id", req.ConversationID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	if err := h.store.Save(ctx, req.ConversationID, state); err != nil {
		// The reply is still valid; losing a turn of persistence beats
		// failing the whole request.
		h.logger.Error("failed to persist conversation state", "conversation_id", req.ConversationID, "error", err)
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		ConversationID:      req.ConversationID,
		Reply:               lastAssistantMessage(state),
		Intent:              string(state.UserIntent),
		CurrentNode:         state.CurrentNode,
		PreferencesComplete: state.PreferencesComplete,
		LeadCaptured:        state.LeadCaptured,
		BookingConfirmed:    state.BookingConfirmed,
		Properties:          state.SearchResults,
	})
}

// Conversation handles GET /api/conversations/{id}: the stored state,
// mainly for debugging and widget history hydration.
func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request, conversationID string) {
	state, err := h.store.Load(r.Context(), conversationID)
	if err != nil {
		h.logger.Error("failed to load conversation state", "conversation_id", conversationID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if state == nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func lastAssistantMessage(state *ConversationState) string {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		if state.Messages[i].Role == RoleAssistant {
			return state.Messages[i].Content
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
