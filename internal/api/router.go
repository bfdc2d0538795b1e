package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/relaycast/internal/api/middleware"
	"github.com/eldtechnologies/relaycast/internal/config"
	"github.com/eldtechnologies/relaycast/internal/handlers"
	"github.com/eldtechnologies/relaycast/internal/hub"
	"github.com/eldtechnologies/relaycast/internal/store"
)

// NewRouter creates and configures the HTTP router. redisStore may be nil;
// rate limiting is simply disabled without it.
func NewRouter(logger zerolog.Logger, cfg *config.Config, msgHub *hub.Hub, redisStore *store.RedisStore) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(1 << 20)) // 1MB: a batch of content-capped messages fits comfortably
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting (requires Redis)
	if redisStore != nil {
		limiter := middleware.NewRateLimiter(redisStore.Client(), logger, middleware.RateLimiterConfig{
			Whitelist:        cfg.RateLimitWhitelist,
			AutoBlockEnabled: cfg.AutoBlockEnabled,
		})
		r.Use(limiter.Middleware)
	}

	// CORS - the display client is typically served from another origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.SecretHeader},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(msgHub, cfg, redisStore, logger)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/api/channels", h.ListChannels)
	r.Get("/api/messages", h.Messages) // snapshot, or SSE with ?stream=1

	// Ingest (shared secret required)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireBotSecret(cfg.BotSecret))
		r.Post("/api/messages", h.Ingest)
	})

	return r
}
