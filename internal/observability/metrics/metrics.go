package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcomes recorded by ObserveRequest.
const (
	OutcomeOK       = "ok"
	OutcomeClosed   = "closed"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

// AvailabilityMetrics exposes counters/histograms for availability resolution.
type AvailabilityMetrics struct {
	requestsTotal      *prometheus.CounterVec
	calendarFetchTotal *prometheus.CounterVec
	resolveLatency     *prometheus.HistogramVec
}

// NewAvailabilityMetrics creates and registers the availability collectors.
func NewAvailabilityMetrics(reg prometheus.Registerer) *AvailabilityMetrics {
	m := &AvailabilityMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medspa",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Total availability resolutions by outcome",
		}, []string{"outcome"}),
		calendarFetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medspa",
			Subsystem: "availability",
			Name:      "calendar_fetch_total",
			Help:      "External calendar fetches by source and result",
		}, []string{"source", "result"}),
		resolveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medspa",
			Subsystem: "availability",
			Name:      "resolve_latency_seconds",
			Help:      "Latency of availability resolution",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.calendarFetchTotal, m.resolveLatency)
	return m
}

func (m *AvailabilityMetrics) ObserveRequest(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.resolveLatency.WithLabelValues(outcome).Observe(seconds)
}

// ObserveCalendarFetch records one external fetch. source is empty when the
// fetch never reached an API (unavailable before calling out).
func (m *AvailabilityMetrics) ObserveCalendarFetch(source, result string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.calendarFetchTotal.WithLabelValues(source, result).Inc()
}
