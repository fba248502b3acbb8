// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_turns_total",
		Help: "Completed turns by pipeline flow and outcome.",
	}, []string{"flow", "outcome"})

	synthesisRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_synthesis_retries_total",
		Help: "SQL synthesis attempts beyond the first, across all turns.",
	})

	turnDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentinel_turn_duration_seconds",
		Help:    "Wall-clock duration of a full turn.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"flow"})
)

// ObserveTurn records one completed turn.
func ObserveTurn(flow, outcome string, attempts int, elapsed time.Duration) {
	turnsTotal.WithLabelValues(flow, outcome).Inc()
	if attempts > 1 {
		synthesisRetries.Add(float64(attempts - 1))
	}
	turnDuration.WithLabelValues(flow).Observe(elapsed.Seconds())
}
