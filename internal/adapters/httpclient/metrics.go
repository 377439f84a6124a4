package httpclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client's Prometheus collectors. A single Metrics value
// may be shared by every service client; series are labelled by service.
type Metrics struct {
	requests *prometheus.CounterVec
	shared   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "apiclient",
				Name:      "requests_total",
				Help:      "Total number of outgoing API calls by outcome.",
			},
			[]string{"service", "method", "status"},
		),
		shared: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "apiclient",
				Name:      "dedup_shared_total",
				Help:      "Calls answered by an identical request already in flight.",
			},
			[]string{"service"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "apiclient",
				Name:      "request_duration_seconds",
				Help:      "Duration of outgoing API calls.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"service", "method"},
		),
	}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.requests, m.shared, m.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(service, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(service, method, label).Inc()
	m.duration.WithLabelValues(service, method).Observe(d.Seconds())
}

func (m *Metrics) sharedHit(service string) {
	if m == nil {
		return
	}
	m.shared.WithLabelValues(service).Inc()
}
