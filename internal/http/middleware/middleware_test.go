package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverland/property-agent/pkg/logging"
)

func okHandler() (http.Handler, *int) {
	calls := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}), &calls
}

func TestCORSOriginHandling(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantOrigin string
	}{
		{"listed origin is echoed", []string{"https://silverlandproperties.com"}, "https://silverlandproperties.com", "https://silverlandproperties.com"},
		{"unknown origin gets no headers", []string{"https://silverlandproperties.com"}, "https://evil.example", ""},
		{"wildcard echoes any origin", []string{"*"}, "https://partner.example", "https://partner.example"},
		{"blank entries are ignored", []string{" ", "https://silverlandproperties.com"}, "https://silverlandproperties.com", "https://silverlandproperties.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, calls := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORS(tt.allowed)(handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, 1, *calls, "non-preflight requests always reach the handler")
			if tt.wantOrigin != "" {
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
			}
		})
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	handler, calls := okHandler()
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://silverlandproperties.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	CORS([]string{"https://silverlandproperties.com"})(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, *calls, "preflight never reaches the handler")
}

func TestCORSWithoutOriginIsPassthrough(t *testing.T) {
	handler, calls := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	CORS([]string{"*"})(handler).ServeHTTP(rec, req)

	assert.Equal(t, 1, *calls)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(0.0001, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should fit the burst", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "burst spent, no refill at this rate")
	assert.True(t, rl.Allow("10.0.0.2"), "other clients keep their own bucket")
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler, _ := okHandler()
	limited := RateLimit(0.0001, 2)(handler)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set("X-Real-Ip", "203.0.113.9")
		last = httptest.NewRecorder()
		limited.ServeHTTP(last, req)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.JSONEq(t, `{"error": "rate limit exceeded"}`, last.Body.String())
}

func TestRequestLoggerCapturesStatus(t *testing.T) {
	logger := logging.NewWithWriter("info", io.Discard)
	logged := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "implicit 200 via Write")
	}))

	rec := httptest.NewRecorder()
	logged.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "implicit 200 via Write", rec.Body.String())
}
