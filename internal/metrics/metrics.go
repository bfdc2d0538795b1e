package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaycast_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relaycast_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Relay metrics
	BatchesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaycast_batches_ingested_total",
			Help: "Total message batches accepted by the ingest endpoint",
		},
		[]string{"channel"},
	)

	MessagesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaycast_messages_ingested_total",
			Help: "Total messages accepted by the ingest endpoint",
		},
		[]string{"channel"},
	)

	EventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relaycast_events_published_total",
			Help: "Total events broadcast to subscribers",
		},
	)

	SubscribersConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relaycast_subscribers_connected",
			Help: "Currently connected stream subscribers",
		},
	)

	SubscribersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relaycast_subscribers_dropped_total",
			Help: "Subscribers pruned after a failed delivery",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaycast_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaycast_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)
)
