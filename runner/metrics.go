package runner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the metrics reported by a Runner.
type Metrics struct {
	Events          *prometheus.CounterVec
	ExecuteDuration *prometheus.HistogramVec
}

const (
	LabelSuccess = "success"
	LabelError   = "error"
)

// NewMetrics returns an unregistered set of runner metrics.
func NewMetrics() *Metrics {
	const (
		namespace = "remap"
		subsystem = "runner"
	)

	return &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_total",
			Help:      "Count of the events a program was executed against",
		}, []string{"result"}),

		ExecuteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "execute_duration_seconds",
			Help:      "Histogram of times spent executing the program against one event",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 5, 8),
		}, []string{"result"}),
	}
}

func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Events,
		m.ExecuteDuration,
	}
}

func (m *Metrics) observe(result string, seconds float64) {
	m.Events.WithLabelValues(result).Inc()
	m.ExecuteDuration.WithLabelValues(result).Observe(seconds)
}
