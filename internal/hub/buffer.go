// Package hub holds the relay's in-memory state: the per-channel message
// buffers and the set of connected stream subscribers. Both live for the
// process lifetime and are safe for concurrent use.
package hub

import (
	"sort"
	"sync"

	"github.com/eldtechnologies/relaycast/internal/models"
)

// DefaultCap is the per-channel buffer size. The product semantics are
// "current value" + "previous value" for a diffing display, not a history
// log, so the cap is intentionally tiny.
const DefaultCap = 2

// ChannelStat summarizes one channel for the listing endpoint.
type ChannelStat struct {
	Name       string
	Buffered   int
	Ingested   int64
	LastActive int64 // epoch ms of last append, 0 if never
}

// BufferStore maps channel names to the last N messages seen on each, in
// arrival order (oldest first). Buffers are created lazily on first append
// and never deleted.
type BufferStore struct {
	mu       sync.RWMutex
	cap      int
	channels map[string][]models.Message
	ingested map[string]int64
	active   map[string]int64
}

// NewBufferStore creates an empty store holding at most cap messages per
// channel. A non-positive cap falls back to DefaultCap.
func NewBufferStore(cap int) *BufferStore {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &BufferStore{
		cap:      cap,
		channels: make(map[string][]models.Message),
		ingested: make(map[string]int64),
		active:   make(map[string]int64),
	}
}

// Cap returns the configured per-channel limit.
func (s *BufferStore) Cap() int {
	return s.cap
}

// Append pushes a batch (already oldest-first) onto the tail of the channel's
// buffer, then evicts from the head until the buffer is back within cap. A
// batch larger than the cap leaves only its own last cap messages.
func (s *BufferStore) Append(channel string, batch []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := append(s.channels[channel], batch...)
	if over := len(buf) - s.cap; over > 0 {
		buf = append(buf[:0:0], buf[over:]...)
	}
	s.channels[channel] = buf
	s.ingested[channel] += int64(len(batch))
	if len(batch) > 0 {
		s.active[channel] = batch[len(batch)-1].ReceivedAt
	}
}

// Read returns a copy of the channel's buffer, oldest first. An unknown
// channel reads as empty, not as an error.
func (s *BufferStore) Read(channel string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.channels[channel]...)
}

// Snapshot returns a copy of every channel's buffer, keyed by channel name.
// Sent to each subscriber on connect so already-seen history is not lost.
func (s *BufferStore) Snapshot() map[string][]models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string][]models.Message, len(s.channels))
	for name, buf := range s.channels {
		snap[name] = append([]models.Message(nil), buf...)
	}
	return snap
}

// Stats lists every known channel with its buffered and cumulative message
// counts, sorted by name.
func (s *BufferStore) Stats() []ChannelStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]ChannelStat, 0, len(s.channels))
	for name, buf := range s.channels {
		stats = append(stats, ChannelStat{
			Name:       name,
			Buffered:   len(buf),
			Ingested:   s.ingested[name],
			LastActive: s.active[name],
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}
