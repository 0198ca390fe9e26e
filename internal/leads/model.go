package leads

import (
	"strings"
	"time"
)

// Lead is a buyer whose name and email were captured during a conversation.
type Lead struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name,omitempty"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	Preferences    map[string]any `json:"preferences,omitempty"`
	Source         string         `json:"source,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SaveLeadRequest carries the contact details collected by the assistant.
type SaveLeadRequest struct {
	ConversationID string         `json:"conversation_id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Preferences    map[string]any `json:"preferences"`
	Source         string         `json:"source"`
}

// Validate enforces the capture gate: a lead exists once both a first
// name and an email are known.
func (r *SaveLeadRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	return nil
}
