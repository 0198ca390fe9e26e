package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the dialogue engine.
type ConversationMetrics struct {
	turnsTotal     *prometheus.CounterVec
	intentTotal    *prometheus.CounterVec
	leadsCaptured  prometheus.Counter
	bookingsTotal  *prometheus.CounterVec
	searchResults  prometheus.Histogram
	turnLatency    *prometheus.HistogramVec
	llmCalls       *prometheus.CounterVec
	cacheHitsTotal *prometheus.CounterVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propertyagent",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Conversation turns processed, by terminal node and status",
		}, []string{"node", "status"}),
		intentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propertyagent",
			Subsystem: "conversation",
			Name:      "intent_total",
			Help:      "Classified intents",
		}, []string{"intent"}),
		leadsCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propertyagent",
			Subsystem: "conversation",
			Name:      "leads_captured_total",
			Help:      "Leads persisted after the capture gate",
		}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propertyagent",
			Subsystem: "conversation",
			Name:      "bookings_total",
			Help:      "Viewing bookings by outcome",
		}, []string{"status"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "propertyagent",
			Subsystem: "conversation",
			Name:      "search_results",
			Help:      "Result counts returned by property searches",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "propertyagent",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one conversation turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"node"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propertyagent",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Text completion calls by purpose and status",
		}, []string{"purpose", "status"}),
		cacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propertyagent",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by namespace and outcome",
		}, []string{"namespace", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.turnsTotal,
		m.intentTotal,
		m.leadsCaptured,
		m.bookingsTotal,
		m.searchResults,
		m.turnLatency,
		m.llmCalls,
		m.cacheHitsTotal,
	)
	return m
}

func (m *ConversationMetrics) ObserveTurn(node, status string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(node, status).Inc()
	m.turnLatency.WithLabelValues(node).Observe(seconds)
}

func (m *ConversationMetrics) ObserveIntent(intent string) {
	if m == nil {
		return
	}
	m.intentTotal.WithLabelValues(intent).Inc()
}

func (m *ConversationMetrics) ObserveLeadCaptured() {
	if m == nil {
		return
	}
	m.leadsCaptured.Inc()
}

func (m *ConversationMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *ConversationMetrics) ObserveSearchResults(count int) {
	if m == nil {
		return
	}
	m.searchResults.Observe(float64(count))
}

func (m *ConversationMetrics) ObserveLLMCall(purpose, status string) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(purpose, status).Inc()
}

func (m *ConversationMetrics) ObserveCacheLookup(namespace string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheHitsTotal.WithLabelValues(namespace, outcome).Inc()
}
