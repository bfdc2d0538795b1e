package hub

import (
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/relaycast/internal/models"
)

// SnapshotEvent is the first event every new subscriber receives: the full
// current state of all channel buffers.
type SnapshotEvent struct {
	Channels map[string][]models.Message `json:"channels"`
}

// BatchEvent announces one accepted ingest batch. It carries exactly the
// messages that were appended, not the resulting buffer.
type BatchEvent struct {
	Channel  string           `json:"channel"`
	Messages []models.Message `json:"messages"`
}

// Hub composes the buffer store and the subscriber registry. It is
// constructed once at startup and injected into the HTTP handlers; there is
// no ambient global state.
type Hub struct {
	store    *BufferStore
	registry *Registry
	logger   zerolog.Logger
}

// New creates a hub whose buffers hold at most cap messages per channel.
func New(cap int, logger zerolog.Logger) *Hub {
	return &Hub{
		store:    NewBufferStore(cap),
		registry: NewRegistry(logger),
		logger:   logger,
	}
}

// Store exposes the buffer store for read paths (snapshot polling, channel
// listing). Mutation goes through Ingest only.
func (h *Hub) Store() *BufferStore {
	return h.store
}

// Subscribers reports how many stream connections are currently open.
func (h *Hub) Subscribers() int {
	return h.registry.Len()
}

// Ingest appends a normalized batch to the channel's buffer and broadcasts
// it to all connected subscribers.
func (h *Hub) Ingest(channel string, batch []models.Message) {
	h.store.Append(channel, batch)
	h.registry.Publish(BatchEvent{Channel: channel, Messages: batch})

	h.logger.Debug().
		Str("channel", channel).
		Int("messages", len(batch)).
		Int("subscribers", h.registry.Len()).
		Msg("batch relayed")
}

// Subscribe snapshots the buffers, then registers a new subscriber. The
// caller must send the snapshot before draining the subscriber's events, and
// must call Unsubscribe when the connection ends.
func (h *Hub) Subscribe() (*Subscriber, SnapshotEvent) {
	snap := SnapshotEvent{Channels: h.store.Snapshot()}
	sub := NewSubscriber()
	h.registry.Register(sub)
	return sub, snap
}

// Unsubscribe removes a subscriber; safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.registry.Deregister(sub)
}
