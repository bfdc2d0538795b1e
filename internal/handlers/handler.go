package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/relaycast/internal/config"
	"github.com/eldtechnologies/relaycast/internal/hub"
	"github.com/eldtechnologies/relaycast/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	hub    *hub.Hub
	cfg    *config.Config
	redis  *store.RedisStore // nil when REDIS_URL is not configured
	logger zerolog.Logger
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(h *hub.Hub, cfg *config.Config, redis *store.RedisStore, logger zerolog.Logger) *Handler {
	return &Handler{hub: h, cfg: cfg, redis: redis, logger: logger}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]any{"success": false, "error": message})
}
