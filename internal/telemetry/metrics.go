// Package telemetry exports engine and server metrics to Prometheus.
// Label values are bounded: game IDs, entity kinds, states and fixed reason
// strings. Session or connection IDs never become labels.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/neon-arcade/internal/engine"
)

// Rejection reasons accepted by RecordRejected.
const (
	ReasonRateLimit = "rate_limit"
	ReasonInvalid   = "invalid"
	ReasonWSLimit   = "ws_limit"
)

// Metrics holds every collector. It implements engine.Observer. A nil
// *Metrics records nothing.
type Metrics struct {
	tickDuration   *prometheus.HistogramVec
	entities       *prometheus.GaugeVec
	transitions    *prometheus.CounterVec
	sessions       *prometheus.CounterVec
	finalScore     *prometheus.HistogramVec
	newRecords     *prometheus.CounterVec
	wsActive       prometheus.Gauge
	wsMessages     *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestTotal   *prometheus.CounterVec
}

var _ engine.Observer = (*Metrics)(nil)

// New registers the collectors on reg. Use prometheus.DefaultRegisterer to
// expose them through promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		tickDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arcade_tick_duration_seconds",
			Help:    "Time spent in one simulation step including render",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
		}, []string{"game"}),
		entities: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arcade_entities",
			Help: "Live entities by kind after the last tick",
		}, []string{"game", "kind"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_state_transitions_total",
			Help: "Play state transitions",
		}, []string{"game", "from", "to"}),
		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_sessions_started_total",
			Help: "Sessions that entered Playing",
		}, []string{"game"}),
		finalScore: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arcade_final_score",
			Help:    "Score at game over",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		}, []string{"game"}),
		newRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_high_score_records_total",
			Help: "Games that beat the stored high score",
		}, []string{"game"}),
		wsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "arcade_websocket_connections_active",
			Help: "Currently active WebSocket play connections",
		}),
		wsMessages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_websocket_messages_total",
			Help: "WebSocket messages by direction",
		}, []string{"direction"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_connection_rejected_total",
			Help: "Connections or messages rejected",
		}, []string{"reason"}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arcade_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
	}
}

// Transition counts a state change and, on entering Playing, a session start.
func (m *Metrics) Transition(gameID string, from, to engine.State) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(gameID, from.String(), to.String()).Inc()
	if to == engine.StatePlaying {
		m.sessions.WithLabelValues(gameID).Inc()
	}
}

// Tick records step time and entity populations.
func (m *Metrics) Tick(gameID string, elapsed time.Duration, s *engine.Session) {
	if m == nil {
		return
	}
	m.tickDuration.WithLabelValues(gameID).Observe(elapsed.Seconds())
	for _, k := range engine.Kinds() {
		m.entities.WithLabelValues(gameID, k.String()).Set(float64(s.Store.Count(k)))
	}
}

// Finalized records a finished game.
func (m *Metrics) Finalized(gameID string, score int, newRecord bool) {
	if m == nil {
		return
	}
	m.finalScore.WithLabelValues(gameID).Observe(float64(score))
	if newRecord {
		m.newRecords.WithLabelValues(gameID).Inc()
	}
}

// WSConnected adjusts the active WebSocket gauge by delta.
func (m *Metrics) WSConnected(delta int) {
	if m == nil {
		return
	}
	m.wsActive.Add(float64(delta))
}

// WSMessage counts one message; direction is "in" or "out".
func (m *Metrics) WSMessage(direction string) {
	if m == nil {
		return
	}
	m.wsMessages.WithLabelValues(direction).Inc()
}

// RecordRejected counts a rejection. reason must be one of the Reason constants.
func (m *Metrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// ObserveRequest records one HTTP request. route is the matched pattern,
// never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
