package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eldtechnologies/relaycast/internal/models"
)

// keepaliveInterval is how often an SSE comment frame is written so proxies
// and load balancers do not reap idle stream connections.
const keepaliveInterval = 20 * time.Second

// SnapshotResponse is the polling (non-stream) form of the messages endpoint.
type SnapshotResponse struct {
	Success  bool                        `json:"success"`
	Channels map[string][]models.Message `json:"channels"`
}

// Messages serves the subscribe surface. With the stream flag set it holds
// the connection open as a server-sent event stream; without it, it returns
// a one-shot JSON snapshot of all channel buffers for polling clients.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("stream") == "" {
		h.JSON(w, http.StatusOK, SnapshotResponse{
			Success:  true,
			Channels: h.hub.Store().Snapshot(),
		})
		return
	}
	h.stream(w, r)
}

// stream sends the initial snapshot, registers the connection, and then
// relays broadcast events until the client disconnects or a write fails.
// The server never initiates closure.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub, snapshot := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	h.logger.Info().
		Str("subscriber", sub.ID()).
		Str("remote_addr", r.RemoteAddr).
		Msg("stream connected")
	defer h.logger.Info().Str("subscriber", sub.ID()).Msg("stream disconnected")

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if writeEvent(w, flusher, data) != nil {
		return
	}

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case data, open := <-sub.Events():
			// Channel closed means the registry pruned this subscriber after
			// a failed delivery; just end the response.
			if !open {
				return
			}
			if writeEvent(w, flusher, data) != nil {
				return
			}
		case <-keepalive.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE data frame and flushes it to the socket.
func writeEvent(w io.Writer, flusher http.Flusher, data []byte) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
