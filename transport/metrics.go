package transport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	contentapi "github.com/reoring/contentapi"
)

type metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// newMetrics builds the request metrics. A nil reg leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contentapi",
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Requests to the content API by kind, operation and outcome.",
		}, []string{"kind", "op", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contentapi",
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests to the content API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "op"}),
	}
}

func (m *metrics) observe(kind contentapi.Kind, op, outcome string, d time.Duration) {
	m.requests.WithLabelValues(string(kind), op, outcome).Inc()
	m.latency.WithLabelValues(string(kind), op).Observe(d.Seconds())
}
