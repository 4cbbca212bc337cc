// Package metrics declares SenseBoard's Prometheus instrumentation.
//
// Naming convention: namespace_subsystem_name
// - namespace: senseboard (application-level grouping)
// - subsystem: room, websocket, scheduler, provider, circuit_breaker,
//   rate_limit (feature-level grouping)
// - name: specific metric (rooms_active, events_total, ...)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveWebSocketConnections tracks current open websocket sessions.
	ActiveWebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "senseboard",
		Subsystem: "websocket",
		Name:      "connections_active",
		Help:      "Current number of active WebSocket connections",
	})

	// WebsocketEvents tracks total websocket frames processed, by type
	// and outcome.
	WebsocketEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "senseboard",
		Subsystem: "websocket",
		Name:      "events_total",
		Help:      "Total WebSocket events processed",
	}, []string{"event_type", "status"})

	// ActiveRooms tracks the current number of in-memory rooms.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "senseboard",
		Subsystem: "room",
		Name:      "rooms_active",
		Help:      "Current number of active rooms",
	})

	// RoomMembers tracks current connected member count per room.
	RoomMembers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "senseboard",
		Subsystem: "room",
		Name:      "members_count",
		Help:      "Number of connected members in each room",
	}, []string{"room_id"})

	// SchedulerQueueDepth tracks pending jobs per worker queue.
	SchedulerQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "senseboard",
		Subsystem: "scheduler",
		Name:      "queue_depth",
		Help:      "Pending jobs in a scheduler worker queue",
	}, []string{"queue"})

	// SchedulerTicks tracks completed regeneration ticks by outcome
	// reason (applied, no_signal, no_change, frozen, timeout, ...).
	SchedulerTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "senseboard",
		Subsystem: "scheduler",
		Name:      "ticks_total",
		Help:      "Total scheduler ticks processed, by outcome reason",
	}, []string{"queue", "reason"})

	// ProviderCallDuration tracks AI/transcription provider call latency.
	ProviderCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "senseboard",
		Subsystem: "provider",
		Name:      "call_duration_seconds",
		Help:      "Time spent in a provider call",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "kind"})

	// ProviderCallOutcome tracks provider calls by outcome.
	ProviderCallOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "senseboard",
		Subsystem: "provider",
		Name:      "calls_total",
		Help:      "Total provider calls, by outcome",
	}, []string{"provider", "kind", "outcome"})

	// CircuitBreakerState tracks circuit breaker state per provider.
	// 0: Closed (healthy), 1: Open (failing), 2: Half-Open (recovering).
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "senseboard",
		Subsystem: "circuit_breaker",
		Name:      "state",
		Help:      "Current state of a provider's circuit breaker (0: Closed, 1: Open, 2: Half-Open)",
	}, []string{"provider"})

	// CircuitBreakerFailures tracks calls rejected by an open breaker.
	CircuitBreakerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "senseboard",
		Subsystem: "circuit_breaker",
		Name:      "failures_total",
		Help:      "Total calls rejected by a provider's circuit breaker",
	}, []string{"provider"})

	// RateLimitExceeded tracks requests rejected by the rate limiter.
	RateLimitExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "senseboard",
		Subsystem: "rate_limit",
		Name:      "exceeded_total",
		Help:      "Total number of requests that exceeded the rate limit",
	}, []string{"endpoint", "reason"})

	// RateLimitRequests tracks requests checked against the rate limiter.
	RateLimitRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "senseboard",
		Subsystem: "rate_limit",
		Name:      "requests_total",
		Help:      "Total number of requests checked against the rate limiter",
	}, []string{"endpoint"})
)

// IncConnection records a newly-accepted websocket session.
func IncConnection() {
	ActiveWebSocketConnections.Inc()
}

// DecConnection records a closed websocket session.
func DecConnection() {
	ActiveWebSocketConnections.Dec()
}
