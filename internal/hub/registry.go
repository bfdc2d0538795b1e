package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/relaycast/internal/metrics"
)

// sendBuffer is the per-subscriber event queue depth. A subscriber that
// cannot drain this many pending events is treated as dead and pruned.
const sendBuffer = 16

// Subscriber represents one open streaming connection. Its event channel is
// closed by the registry when the subscriber is removed, which ends the
// owning handler's write loop.
type Subscriber struct {
	id string
	ch chan []byte
}

// NewSubscriber creates an unregistered subscriber with a fresh connection id.
func NewSubscriber() *Subscriber {
	return &Subscriber{
		id: uuid.NewString(),
		ch: make(chan []byte, sendBuffer),
	}
}

// ID returns the connection id used in logs.
func (s *Subscriber) ID() string {
	return s.id
}

// Events returns the channel the registry delivers serialized events on. It
// is closed when the subscriber is deregistered.
func (s *Subscriber) Events() <-chan []byte {
	return s.ch
}

// Registry is the set of live subscribers. Publish delivers to every member
// and prunes any whose delivery fails; a failed subscriber is expected to
// reconnect and receive a fresh snapshot.
type Registry struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	logger zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Register adds a subscriber to the live set. It receives every event
// published strictly after Register returns.
func (r *Registry) Register(sub *Subscriber) {
	r.mu.Lock()
	r.subs[sub] = struct{}{}
	total := len(r.subs)
	r.mu.Unlock()

	metrics.SubscribersConnected.Inc()
	r.logger.Debug().Str("subscriber", sub.id).Int("total", total).Msg("subscriber registered")
}

// Deregister removes a subscriber and closes its event channel. Removing a
// subscriber that is already gone is a no-op.
func (r *Registry) Deregister(sub *Subscriber) {
	r.mu.Lock()
	_, ok := r.subs[sub]
	if ok {
		delete(r.subs, sub)
	}
	total := len(r.subs)
	r.mu.Unlock()

	if !ok {
		return
	}
	close(sub.ch)
	metrics.SubscribersConnected.Dec()
	r.logger.Debug().Str("subscriber", sub.id).Int("total", total).Msg("subscriber deregistered")
}

// Publish serializes the event once and delivers it to every registered
// subscriber. A subscriber whose queue is full is removed from the live set
// before Publish returns; the failure never reaches the caller.
func (r *Registry) Publish(event any) {
	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Warn().Err(err).Msg("dropping unserializable event")
		return
	}

	var dead []*Subscriber

	r.mu.Lock()
	for sub := range r.subs {
		select {
		case sub.ch <- data:
		default:
			delete(r.subs, sub)
			dead = append(dead, sub)
		}
	}
	r.mu.Unlock()

	metrics.EventsPublished.Inc()

	for _, sub := range dead {
		close(sub.ch)
		metrics.SubscribersConnected.Dec()
		metrics.SubscribersDropped.Inc()
		r.logger.Warn().Str("subscriber", sub.id).Msg("subscriber dropped after failed delivery")
	}
}

// Len reports the current live-set size.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
