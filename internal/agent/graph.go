package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/silverland/property-agent/internal/bookings"
	"github.com/silverland/property-agent/internal/cache"
	"github.com/silverland/property-agent/internal/catalog"
	"github.com/silverland/property-agent/internal/leads"
	"github.com/silverland/property-agent/internal/llm"
	"github.com/silverland/property-agent/internal/observability/metrics"
	"github.com/silverland/property-agent/internal/websearch"
	"github.com/silverland/property-agent/pkg/logging"
)

const (
	conversationTemperature = 0.7
	defaultMaxTokens        = 2048
	defaultSupportEmail     = "support@silverlandproperties.com"
)

// Edge labels returned by the routing predicates.
type edge string

const (
	edgeDiscover       edge = "discover"
	edgeSearch         edge = "search"
	edgeRecommend      edge = "recommend"
	edgeQuestion       edge = "question"
	edgeBooking        edge = "booking"
	edgeProvideContact edge = "provide_contact"
	edgeError          edge = "error"
	edgeGoodbye        edge = "goodbye"
	edgeConfirm        edge = "confirm"
	edgeContinue       edge = "continue"
	edgeEnd            edge = "end"
)

// NLSearcher is the natural-language secondary search path.
type NLSearcher interface {
	Search(ctx context.Context, request string, limit int) ([]catalog.Property, error)
}

// BookingService creates viewings and renders confirmations.
type BookingService interface {
	CreateViewing(ctx context.Context, leadID string, projectID int64, conversationID, notes string) (*bookings.Booking, error)
	ConfirmationMessage(ctx context.Context, booking *bookings.Booking) (string, error)
}

// WebSearcher enriches Q&A answers with external facts.
type WebSearcher interface {
	Available() bool
	Search(ctx context.Context, query, projectName, location string, maxResults int) (*websearch.Response, error)
}

// Deps carries the collaborators the Engine is built from. LLMClient,
// Catalog, Leads, and Bookings are required; the rest degrade gracefully
// when nil.
type Deps struct {
	LLMClient  llm.Client
	Classifier *Classifier
	Catalog    catalog.SearchProvider
	NLSearcher NLSearcher
	Leads      leads.Repository
	Bookings   BookingService
	WebSearch  WebSearcher
	Cache      cache.Cache
	Metrics    *metrics.ConversationMetrics
	Logger     *logging.Logger

	// MaxTokens bounds generation calls; zero means the default.
	MaxTokens int32
	// SupportEmail appears in escalated failure messages.
	SupportEmail string
	// IntentCacheTTL and SearchCacheTTL override the per-namespace cache
	// defaults; zero keeps them.
	IntentCacheTTL time.Duration
	SearchCacheTTL time.Duration
}

// Engine drives one conversation turn through the dialogue state machine.
type Engine struct {
	llmClient         llm.Client
	classifier        *Classifier
	catalog           catalog.SearchProvider
	nlSearcher        NLSearcher
	leads             leads.Repository
	bookings          BookingService
	websearch         WebSearcher
	cache             cache.Cache
	metrics           *metrics.ConversationMetrics
	logger            *logging.Logger
	maxTokens         int32
	supportEmail      string
	searchCacheTTL    time.Duration
	needsExternalInfo func(string) bool
}

// NewEngine wires the dialogue engine.
func NewEngine(deps Deps) *Engine {
	if deps.LLMClient == nil {
		panic("agent: llm client required")
	}
	if deps.Catalog == nil {
		panic("agent: catalog provider required")
	}
	if deps.Leads == nil {
		panic("agent: lead repository required")
	}
	if deps.Bookings == nil {
		panic("agent: booking service required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Classifier == nil {
		deps.Classifier = NewClassifier(deps.LLMClient, deps.Cache, deps.IntentCacheTTL, deps.Metrics, deps.Logger)
	}
	if deps.MaxTokens <= 0 {
		deps.MaxTokens = defaultMaxTokens
	}
	if deps.SupportEmail == "" {
		deps.SupportEmail = defaultSupportEmail
	}
	if deps.SearchCacheTTL <= 0 {
		deps.SearchCacheTTL = cache.DefaultPropertySearchTTL
	}
	return &Engine{
		llmClient:         deps.LLMClient,
		classifier:        deps.Classifier,
		catalog:           deps.Catalog,
		nlSearcher:        deps.NLSearcher,
		leads:             deps.Leads,
		bookings:          deps.Bookings,
		websearch:         deps.WebSearch,
		cache:             deps.Cache,
		metrics:           deps.Metrics,
		logger:            deps.Logger,
		maxTokens:         deps.MaxTokens,
		supportEmail:      deps.SupportEmail,
		searchCacheTTL:    deps.SearchCacheTTL,
		needsExternalInfo: websearch.NeedsExternalInfo,
	}
}

// ProcessMessage runs one turn: validate the message, clone prior state,
// append the message, and traverse the state machine to a terminal node.
// The returned state always carries at least one new assistant message
// unless the turn deliberately ends silent (see afterQuestion).
func (e *Engine) ProcessMessage(ctx context.Context, conversationID, message string, prior *ConversationState) (state *ConversationState, err error) {
	validated, err := ValidateMessage(message)
	if err != nil {
		return nil, err
	}

	if prior != nil {
		state = prior.Clone()
	} else {
		state = NewState(conversationID)
	}
	state.AppendMessage(RoleUser, validated)
	state.LastUpdated = time.Now().UTC()
	state.ToolsUsed = []string{}

	started := time.Now()

	// Node-local failures resolve to fallback messages inside each node;
	// only a failure of the machine itself lands here.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("turn processing panicked", "conversation_id", conversationID, "panic", r)
			state.ErrorMessage = fmt.Sprint(r)
			state.AppendMessage(RoleAssistant, turnFailureMessage)
			e.metrics.ObserveTurn(state.CurrentNode, "panic", time.Since(started).Seconds())
			err = nil
		}
	}()

	e.traverse(ctx, state)

	e.metrics.ObserveTurn(state.CurrentNode, "ok", time.Since(started).Seconds())
	return state, nil
}

// traverse walks the node graph for one turn.
func (e *Engine) traverse(ctx context.Context, state *ConversationState) {
	e.greet(ctx, state)
	e.classifyIntent(ctx, state)

	switch routeAfterClassification(state) {
	case edgeError:
		e.handleError(ctx, state)

	case edgeDiscover:
		e.discoverPreferences(ctx, state)
		if shouldSearchProperties(state) == edgeSearch {
			e.runSearchAndRecommend(ctx, state)
		}

	case edgeSearch:
		e.runSearchAndRecommend(ctx, state)

	case edgeRecommend:
		e.recommendProperties(ctx, state)

	case edgeQuestion:
		e.answerQuestions(ctx, state)
		switch afterQuestion(state) {
		case edgeBooking:
			e.runBookingFlow(ctx, state)
		case edgeSearch:
			e.runSearchAndRecommend(ctx, state)
		}

	case edgeBooking:
		e.runBookingFlow(ctx, state)

	case edgeProvideContact:
		e.runLeadCapture(ctx, state)

	case edgeGoodbye:
		e.sayGoodbye(ctx, state)
	}
}

func (e *Engine) runSearchAndRecommend(ctx context.Context, state *ConversationState) {
	e.searchProperties(ctx, state)
	e.recommendProperties(ctx, state)
}

func (e *Engine) runBookingFlow(ctx context.Context, state *ConversationState) {
	e.proposeBooking(ctx, state)
	e.runLeadCapture(ctx, state)
}

func (e *Engine) runLeadCapture(ctx context.Context, state *ConversationState) {
	e.captureLead(ctx, state)
	if leadCaptureComplete(state) == edgeConfirm {
		e.confirmBooking(ctx, state)
	}
}

// classifyIntent records the classified intent for routing.
func (e *Engine) classifyIntent(ctx context.Context, state *ConversationState) {
	// A pending error leaves CurrentNode pointing at the node that
	// failed; handleError keys its recovery message on it.
	if state.ErrorMessage == "" {
		state.CurrentNode = NodeClassifyIntent
	}

	if len(state.Messages) == 0 {
		state.UserIntent = IntentGreeting
		return
	}
	message := state.LastUserMessage()
	if message == "" {
		state.UserIntent = IntentOther
		return
	}

	state.UserIntent = e.classifier.Classify(ctx, message, state.Messages)
	e.metrics.ObserveIntent(string(state.UserIntent))
	e.logger.Debug("classified intent", "intent", state.UserIntent)
}

// routeAfterClassification is the main routing predicate, a pure
// function of state. Rules apply in priority order.
func routeAfterClassification(state *ConversationState) edge {
	if state.ErrorMessage != "" {
		return edgeError
	}

	switch state.UserIntent {
	case IntentGreeting, IntentSharePreferences:
		return edgeDiscover

	case IntentAskQuestion, IntentClarify:
		return edgeQuestion

	case IntentRequestRecommendations:
		if state.PreferencesComplete || state.Preferences.City != "" {
			return edgeSearch
		}
		return edgeDiscover

	case IntentExpressInterest:
		if len(state.SearchResults) > 0 {
			return edgeBooking
		}
		return edgeRecommend

	case IntentBookViewing:
		return edgeBooking

	case IntentProvideContact:
		return edgeProvideContact

	case IntentGoodbye:
		return edgeGoodbye
	}

	// "other" and anything unrecognized: goodbye safety net first, then
	// fall back on conversation context.
	if MentionsGoodbye(state.LastUserMessage()) {
		return edgeGoodbye
	}
	if len(state.Messages) > 2 {
		return edgeQuestion
	}
	if state.Preferences.City != "" {
		return edgeSearch
	}
	return edgeDiscover
}

// shouldSearchProperties decides whether discovery gathered enough to
// run a search this turn.
func shouldSearchProperties(state *ConversationState) edge {
	prefs := state.Preferences
	hasCity := prefs.City != ""
	hasBedrooms := prefs.Bedrooms != nil
	hasBudget := prefs.HasBudget()

	if hasCity && (hasBedrooms || hasBudget || state.PreferencesComplete) {
		return edgeSearch
	}
	return edgeContinue
}

// afterQuestion decides the follow-on step from a Q&A turn. A goodbye
// phrase ends the turn without a farewell; the next turn's classifier
// routes it to the goodbye node.
func afterQuestion(state *ConversationState) edge {
	message := strings.ToLower(state.LastUserMessage())
	if message == "" {
		return edgeEnd
	}

	if containsAny(message, afterQuestionGoodbyePhrases) {
		return edgeEnd
	}
	if containsAny(message, bookingKeywords) {
		return edgeBooking
	}
	if containsAny(message, moreResultsKeywords) {
		return edgeSearch
	}
	return edgeEnd
}

// leadCaptureComplete gates booking confirmation on a captured lead and
// a selected project.
func leadCaptureComplete(state *ConversationState) edge {
	if state.LeadCaptured && state.SelectedProjectID != nil {
		return edgeConfirm
	}
	return edgeContinue
}

// completeText wraps a generation call with metrics and trims the reply.
func (e *Engine) completeText(ctx context.Context, purpose string, req llm.Request) (string, error) {
	if req.MaxTokens == 0 {
		req.MaxTokens = e.maxTokens
	}
	resp, err := e.llmClient.Complete(ctx, req)
	if err != nil {
		e.metrics.ObserveLLMCall(purpose, "error")
		return "", err
	}
	e.metrics.ObserveLLMCall(purpose, "ok")
	return strings.TrimSpace(resp.Text), nil
}
