package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/eldtechnologies/relaycast/internal/metrics"
	"github.com/eldtechnologies/relaycast/internal/normalize"
)

// IngestRequest is the body the forwarder posts: one channel plus a batch of
// raw records, oldest first. Record fields are deliberately untyped; the
// normalizer repairs whatever shape arrives.
type IngestRequest struct {
	Channel  string          `json:"channel"`
	Messages json.RawMessage `json:"messages"`
}

// Ingest accepts a batch of raw messages for one channel, normalizes them,
// appends them to the channel's buffer, and broadcasts the batch to all
// connected subscribers. The shared-secret check has already happened in
// middleware.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Channel == "" {
		h.Error(w, http.StatusBadRequest, "channel is required")
		return
	}

	// JSON null unmarshals into a nil slice without error; it is not an array.
	var elems []json.RawMessage
	if len(req.Messages) == 0 || string(req.Messages) == "null" || json.Unmarshal(req.Messages, &elems) != nil {
		h.Error(w, http.StatusBadRequest, "messages must be an array")
		return
	}

	// Non-object elements decode to a nil map and normalize to all defaults;
	// only a non-array messages value is a client error.
	raws := make([]map[string]any, len(elems))
	for i, e := range elems {
		_ = json.Unmarshal(e, &raws[i])
	}

	batch := normalize.Batch(raws, time.Now())
	h.hub.Ingest(req.Channel, batch)

	metrics.BatchesIngested.WithLabelValues(req.Channel).Inc()
	metrics.MessagesIngested.WithLabelValues(req.Channel).Add(float64(len(batch)))

	h.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// parsePositive reads a positive integer query parameter, returning def when
// absent or malformed.
func parsePositive(raw string, def int) int {
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return def
}
