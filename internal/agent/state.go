package agent

import (
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Intent is the closed classification set for user messages.
type Intent string

const (
	IntentGreeting               Intent = "greeting"
	IntentSharePreferences       Intent = "share_preferences"
	IntentAskQuestion            Intent = "ask_question"
	IntentRequestRecommendations Intent = "request_recommendations"
	IntentExpressInterest        Intent = "express_interest"
	IntentBookViewing            Intent = "book_viewing"
	IntentProvideContact         Intent = "provide_contact"
	IntentClarify                Intent = "clarify"
	IntentGoodbye                Intent = "goodbye"
	IntentOther                  Intent = "other"
)

var allIntents = map[Intent]struct{}{
	IntentGreeting:               {},
	IntentSharePreferences:       {},
	IntentAskQuestion:            {},
	IntentRequestRecommendations: {},
	IntentExpressInterest:        {},
	IntentBookViewing:            {},
	IntentProvideContact:         {},
	IntentClarify:                {},
	IntentGoodbye:                {},
	IntentOther:                  {},
}

// ParseIntent maps a label to a member of the closed set. Anything
// unrecognized resolves to IntentOther.
func ParseIntent(label string) Intent {
	in := Intent(label)
	if _, ok := allIntents[in]; ok {
		return in
	}
	return IntentOther
}

// Node names of the dialogue state machine.
const (
	NodeGreeting            = "greeting"
	NodeClassifyIntent      = "classify_intent"
	NodeDiscoverPreferences = "discover_preferences"
	NodeSearchProperties    = "search_properties"
	NodeRecommendProperties = "recommend_properties"
	NodeAnswerQuestions     = "answer_questions"
	NodeProposeBooking      = "propose_booking"
	NodeCaptureLead         = "capture_lead"
	NodeConfirmBooking      = "confirm_booking"
	NodeHandleError         = "handle_error"
	NodeGoodbye             = "goodbye"
	NodeEnd                 = "end"
)

// Message is one entry in the conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Preferences are the search criteria assembled progressively from the
// conversation. Pointers model presence; a nil field was never stated.
type Preferences struct {
	City             string   `json:"city,omitempty"`
	Country          string   `json:"country,omitempty"`
	Bedrooms         *int     `json:"bedrooms,omitempty"`
	Bathrooms        *int     `json:"bathrooms,omitempty"`
	BudgetMin        *float64 `json:"budget_min,omitempty"`
	BudgetMax        *float64 `json:"budget_max,omitempty"`
	PropertyType     string   `json:"property_type,omitempty"`
	CompletionStatus string   `json:"completion_status,omitempty"`
	Features         []string `json:"features,omitempty"`
}

// HasBudget reports whether either budget bound is stated.
func (p Preferences) HasBudget() bool {
	return p.BudgetMin != nil || p.BudgetMax != nil
}

// LeadData holds progressively captured contact fields.
type LeadData struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// PropertyResult is one scored candidate from a property search.
type PropertyResult struct {
	ID               int64    `json:"id"`
	ProjectName      string   `json:"project_name"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	PropertyType     string   `json:"property_type,omitempty"`
	Bedrooms         *int     `json:"bedrooms,omitempty"`
	Bathrooms        *int     `json:"bathrooms,omitempty"`
	PriceUSD         *float64 `json:"price_usd,omitempty"`
	AreaSqm          *float64 `json:"area_sqm,omitempty"`
	CompletionStatus string   `json:"completion_status,omitempty"`
	Features         []string `json:"features,omitempty"`
	Facilities       []string `json:"facilities,omitempty"`
	Description      string   `json:"description,omitempty"`
	MatchScore       float64  `json:"match_score"`
}

// ConversationState is the single record threaded through every node of
// the state machine and persisted between turns.
type ConversationState struct {
	ConversationID string `json:"conversation_id"`
	CurrentNode    string `json:"current_node"`

	Messages []Message `json:"messages"`

	Preferences         Preferences `json:"preferences"`
	PreferencesComplete bool        `json:"preferences_complete"`

	SearchResults       []PropertyResult `json:"search_results"`
	RecommendedProjects []int64          `json:"recommended_projects"`

	LeadData     LeadData `json:"lead_data"`
	LeadCaptured bool     `json:"lead_captured"`
	LeadID       string   `json:"lead_id,omitempty"`

	SelectedProjectID *int64 `json:"selected_project_id,omitempty"`
	BookingID         string `json:"booking_id,omitempty"`
	BookingConfirmed  bool   `json:"booking_confirmed"`

	UserIntent Intent `json:"user_intent,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`
	RetryCount   int    `json:"retry_count"`

	ToolsUsed []string `json:"tools_used"`

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewState creates the state for a fresh conversation.
func NewState(conversationID string) *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{
		ConversationID: conversationID,
		CurrentNode:    NodeGreeting,
		Messages:       []Message{},
		SearchResults:  []PropertyResult{},
		ToolsUsed:      []string{},
		CreatedAt:      now,
		LastUpdated:    now,
	}
}

// Clone deep-copies the state so an in-flight turn never mutates the
// persisted base of a racing turn.
func (s *ConversationState) Clone() *ConversationState {
	out := *s

	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)

	out.SearchResults = make([]PropertyResult, len(s.SearchResults))
	for i, r := range s.SearchResults {
		out.SearchResults[i] = clonePropertyResult(r)
	}

	out.RecommendedProjects = append([]int64(nil), s.RecommendedProjects...)
	out.ToolsUsed = append([]string(nil), s.ToolsUsed...)
	out.Preferences = clonePreferences(s.Preferences)

	if s.SelectedProjectID != nil {
		id := *s.SelectedProjectID
		out.SelectedProjectID = &id
	}

	return &out
}

func clonePreferences(p Preferences) Preferences {
	out := p
	out.Bedrooms = cloneIntPtr(p.Bedrooms)
	out.Bathrooms = cloneIntPtr(p.Bathrooms)
	out.BudgetMin = cloneFloatPtr(p.BudgetMin)
	out.BudgetMax = cloneFloatPtr(p.BudgetMax)
	out.Features = append([]string(nil), p.Features...)
	return out
}

func clonePropertyResult(r PropertyResult) PropertyResult {
	out := r
	out.Bedrooms = cloneIntPtr(r.Bedrooms)
	out.Bathrooms = cloneIntPtr(r.Bathrooms)
	out.PriceUSD = cloneFloatPtr(r.PriceUSD)
	out.AreaSqm = cloneFloatPtr(r.AreaSqm)
	out.Features = append([]string(nil), r.Features...)
	out.Facilities = append([]string(nil), r.Facilities...)
	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// LastUserMessage returns the content of the most recent user message.
func (s *ConversationState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// AppendMessage adds one transcript entry.
func (s *ConversationState) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// RecordTool appends a collaborator name to the per-turn diagnostic list.
func (s *ConversationState) RecordTool(name string) {
	s.ToolsUsed = append(s.ToolsUsed, name)
}

// RecentWindow returns the last n messages without copying content.
func (s *ConversationState) RecentWindow(n int) []Message {
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
