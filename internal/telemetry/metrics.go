package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the service
type Metrics struct {
	requestCount       *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	conversionCount    *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec
	pageCount          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		conversionCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdf_conversions_total",
				Help: "PDF to Word conversions by pipeline and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		conversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pdf_conversion_duration_seconds",
				Help:    "Time spent converting one document.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"mode"},
		),
		pageCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdf_pages_converted_total",
				Help: "Pages processed by pipeline.",
			},
			[]string{"mode"},
		),
	}

	collectors := []prometheus.Collector{
		m.requestCount,
		m.requestDuration,
		m.conversionCount,
		m.conversionDuration,
		m.pageCount,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveConversion records one finished conversion. pages is ignored for
// failed conversions.
func (m *Metrics) ObserveConversion(mode, outcome string, pages int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.conversionCount.WithLabelValues(mode, outcome).Inc()
	m.conversionDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		m.pageCount.WithLabelValues(mode).Add(float64(pages))
	}
}

// Conversion outcomes
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)
