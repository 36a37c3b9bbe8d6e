package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/clinicdesk/scheduling-assistant/internal/http/middleware"
	"github.com/clinicdesk/scheduling-assistant/internal/webchat"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Webchat            *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Chat endpoints are rate limited per IP when RateLimitPerSecond > 0.
	RateLimitPerSecond float64
	RateLimitBurst     int
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

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Webchat != nil {
		r.Route("/chat", func(chat chi.Router) {
			if cfg.RateLimitPerSecond > 0 {
				burst := cfg.RateLimitBurst
				if burst <= 0 {
					burst = 10
				}
				chat.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, burst))
			}
			chat.Get("/ws", cfg.Webchat.HandleWebSocket)
			chat.Post("/message", cfg.Webchat.HandleMessage)
			chat.Get("/history", cfg.Webchat.HandleHistory)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
