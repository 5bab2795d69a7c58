package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects client and server side action metrics.
// It satisfies dispatcher.Observer and http.ServerObserver.
type Metrics struct {
	// RoundTrips counts action round trips.
	// Labels: result (ok|transport|malformed)
	RoundTrips *prometheus.CounterVec

	// RoundTripDuration measures action latency in seconds.
	RoundTripDuration prometheus.Histogram

	// Effects counts applied effects.
	// Labels: kind (none|navigate|reload|callback|show_error)
	Effects *prometheus.CounterVec

	// ActionsServed counts envelopes written by the action server.
	// Labels: action (post.upvote, comment.delete, ...), variant (error|redirect|reload|payload)
	ActionsServed *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.NewRegistry())
}

// NewMetricsWith registers the collectors on reg.
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RoundTrips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsmeme",
			Name:      "action_round_trips_total",
			Help:      "Action round trips by result.",
		}, []string{"result"}),
		RoundTripDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "newsmeme",
			Name:      "action_round_trip_seconds",
			Help:      "Action round trip latency.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Effects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsmeme",
			Name:      "action_effects_total",
			Help:      "Effects applied to the page by kind.",
		}, []string{"kind"}),
		ActionsServed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsmeme",
			Name:      "actions_served_total",
			Help:      "Action envelopes served by action and variant.",
		}, []string{"action", "variant"}),
		gatherer: reg,
	}
}

func (m *Metrics) RoundTrip(url string, elapsed time.Duration, err error) {
	m.RoundTripDuration.Observe(elapsed.Seconds())
	m.RoundTrips.WithLabelValues(roundTripResult(err)).Inc()
}

func (m *Metrics) EffectApplied(kind domain.EffectKind) {
	m.Effects.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ActionServed(action, result string) {
	m.ActionsServed.WithLabelValues(action, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func roundTripResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMalformedEnvelope):
		return "malformed"
	default:
		return "transport"
	}
}
