package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taskflow"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups the collectors of the service. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	parseTotal       *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		parseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_total",
			Help:      "Parsing pipeline runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of text generation provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"provider", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	if reg != nil {
		reg.MustRegister(m.parseTotal, m.providerDuration, m.httpRequests)
	}
	return m
}

// ObserveParse records a pipeline run. outcome is OutcomeSuccess or an error
// kind.
func (m *Metrics) ObserveParse(mode, outcome string) {
	if m == nil {
		return
	}
	m.parseTotal.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) ObserveProvider(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.providerDuration.WithLabelValues(provider, outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}
