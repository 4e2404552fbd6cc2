package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Queries records statement latency and failures per record operation.
// A nil *Queries is valid and records nothing.
type Queries struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewQueries creates the query collectors and registers them on reg.
func NewQueries(reg prometheus.Registerer) *Queries {
	q := &Queries{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "record_query_duration_seconds",
				Help:    "Duration of record store statements",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "table"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "record_query_failures_total",
				Help: "Total number of failed record store statements",
			},
			[]string{"op", "table"},
		),
	}
	if reg != nil {
		reg.MustRegister(q.duration, q.failures)
	}
	return q
}

// Observe records one statement that started at start.
func (q *Queries) Observe(op, table string, start time.Time, err error) {
	if q == nil {
		return
	}
	q.duration.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	if err != nil {
		q.failures.WithLabelValues(op, table).Inc()
	}
}

// Handler exposes the given registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
