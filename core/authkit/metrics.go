package authkit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts state machine outcomes and refresh exchanges.
// A nil *Metrics records nothing.
type Metrics struct {
	outcomes        *prometheus.CounterVec
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
}

// NewMetrics registers the session engine metrics with reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authkit",
			Name:      "session_outcomes_total",
			Help:      "Requests processed by the session state machine, by final state",
		}, []string{"outcome"}),

		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authkit",
			Name:      "refresh_total",
			Help:      "Refresh-token exchanges, by result",
		}, []string{"result"}),

		refreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "authkit",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of refresh-token exchanges in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeOutcome(s State) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(s.String()).Inc()
}

func (m *Metrics) observeRefresh(err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.refreshes.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(d.Seconds())
}
