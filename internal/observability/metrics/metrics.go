package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for availability and booking flows.
type SchedulingMetrics struct {
	availabilityOps     *prometheus.CounterVec
	degradedConversions prometheus.Counter
	bookingsTotal       *prometheus.CounterVec
	saveLatency         prometheus.Histogram
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		availabilityOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serenenow",
			Subsystem: "availability",
			Name:      "operations_total",
			Help:      "Availability fetch/save operations by outcome",
		}, []string{"operation", "status"}),
		degradedConversions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "serenenow",
			Subsystem: "timezone",
			Name:      "degraded_conversions_total",
			Help:      "Clock conversions that fell back to best-effort output",
		}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serenenow",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Booking creation attempts by outcome",
		}, []string{"status"}),
		saveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "serenenow",
			Subsystem: "availability",
			Name:      "save_latency_seconds",
			Help:      "Latency of full save round trips (encode, save, decode echo)",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityOps, m.degradedConversions, m.bookingsTotal, m.saveLatency)
	return m
}

func (m *SchedulingMetrics) ObserveAvailabilityOp(operation, status string) {
	if m == nil {
		return
	}
	m.availabilityOps.WithLabelValues(operation, status).Inc()
}

func (m *SchedulingMetrics) ObserveDegradedConversions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.degradedConversions.Add(float64(n))
}

func (m *SchedulingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveSaveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.saveLatency.Observe(seconds)
}
