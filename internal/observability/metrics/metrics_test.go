package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)

	m.ObserveTurn("confirm_booking", "ok", 0.42)
	m.ObserveIntent("book_viewing")
	m.ObserveIntent("book_viewing")
	m.ObserveLeadCaptured()
	m.ObserveBooking("pending")
	m.ObserveSearchResults(5)
	m.ObserveLLMCall("intent", "ok")
	m.ObserveCacheLookup("intent", true)
	m.ObserveCacheLookup("intent", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.turnsTotal.WithLabelValues("confirm_booking", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.intentTotal.WithLabelValues("book_viewing")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.leadsCaptured))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingsTotal.WithLabelValues("pending")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheHitsTotal.WithLabelValues("intent", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheHitsTotal.WithLabelValues("intent", "miss")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveTurn("goodbye", "ok", 0.1)
	m.ObserveIntent("greeting")
	m.ObserveLeadCaptured()
	m.ObserveBooking("pending")
	m.ObserveSearchResults(0)
	m.ObserveLLMCall("intent", "error")
	m.ObserveCacheLookup("intent", false)
}
