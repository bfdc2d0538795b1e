package handlers

import (
	"net/http"
	"time"
)

// ChannelInfo represents a channel in the list response.
type ChannelInfo struct {
	Name         string `json:"name"`
	Buffered     int    `json:"buffered"`
	MessageCount int64  `json:"message_count"`
	LastActive   string `json:"last_active,omitempty"`
	Route        string `json:"route,omitempty"` // display-variant hint
}

// ChannelListResponse represents the channels list response.
type ChannelListResponse struct {
	Channels []ChannelInfo `json:"channels"`
	Total    int           `json:"total"`
}

// ListChannels lists every channel seen since startup, with cumulative
// counts and the configured display-routing hint.
func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	limit := parsePositive(r.URL.Query().Get("limit"), 100)

	stats := h.hub.Store().Stats()
	total := len(stats)
	if len(stats) > limit {
		stats = stats[:limit]
	}

	channels := make([]ChannelInfo, len(stats))
	for i, stat := range stats {
		info := ChannelInfo{
			Name:         stat.Name,
			Buffered:     stat.Buffered,
			MessageCount: stat.Ingested,
			Route:        h.cfg.ChannelRoutes[stat.Name],
		}
		if stat.LastActive > 0 {
			info.LastActive = time.UnixMilli(stat.LastActive).UTC().Format("2006-01-02T15:04:05Z")
		}
		channels[i] = info
	}

	h.JSON(w, http.StatusOK, ChannelListResponse{
		Channels: channels,
		Total:    total,
	})
}
