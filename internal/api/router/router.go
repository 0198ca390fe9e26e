package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/silverland/property-agent/internal/agent"
	httpmiddleware "github.com/silverland/property-agent/internal/http/middleware"
	"github.com/silverland/property-agent/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *agent.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// ChatRatePerSecond caps chat requests per client IP; zero disables
	// rate limiting.
	ChatRatePerSecond float64
	ChatBurst         int

	// Health dependencies; nil checks are skipped.
	RedisPing    func(ctx context.Context) error
	PostgresPing func(ctx context.Context) error
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck(cfg))

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ChatHandler != nil {
		r.Route("/api", func(api chi.Router) {
			if cfg.ChatRatePerSecond > 0 {
				api.Use(httpmiddleware.RateLimit(cfg.ChatRatePerSecond, cfg.ChatBurst))
			}
			api.Post("/chat", cfg.ChatHandler.Chat)
			api.Get("/conversations/{conversationID}", func(w http.ResponseWriter, r *http.Request) {
				cfg.ChatHandler.Conversation(w, r, chi.URLParam(r, "conversationID"))
			})
		})
	}

	return r
}

func healthCheck(cfg *Config) http.HandlerFunc {
	type dependencyStatus struct {
		Redis    string `json:"redis,omitempty"`
		Postgres string `json:"postgres,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := dependencyStatus{}
		if cfg.RedisPing != nil {
			deps.Redis = "ok"
			if err := cfg.RedisPing(ctx); err != nil {
				deps.Redis = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if cfg.PostgresPing != nil {
			deps.Postgres = "ok"
			if err := cfg.PostgresPing(ctx); err != nil {
				deps.Postgres = err.Error()
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       healthLabel(status),
			"dependencies": deps,
		})
	}
}

func healthLabel(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
