package metrics

import (
	"net/http"
	"time"

	"StockPanel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for panel builds and data fetches.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	PanelsTotal    *prometheus.CounterVec   // labels: outcome
	DegradedFields *prometheus.CounterVec   // labels: field, status
	FetchDuration  *prometheus.HistogramVec // labels: provider, kind
	FetchErrors    *prometheus.CounterVec   // labels: provider, kind
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PanelsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpanel_panels_total",
			Help: "Panels assembled, by outcome (ok, unavailable, error)",
		}, []string{"outcome"}),
		DegradedFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpanel_degraded_fields_total",
			Help: "Panel fields that produced no usable number",
		}, []string{"field", "status"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockpanel_fetch_duration_seconds",
			Help:    "Data provider request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider", "kind"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpanel_fetch_errors_total",
			Help: "Failed data provider requests",
		}, []string{"provider", "kind"}),
	}

	reg.MustRegister(m.PanelsTotal, m.DegradedFields, m.FetchDuration, m.FetchErrors)
	return m
}

// ObservePanel records the outcome of one panel build.
func (m *Metrics) ObservePanel(snap *model.PanelSnapshot, outcome string) {
	if m == nil {
		return
	}
	m.PanelsTotal.WithLabelValues(outcome).Inc()
	if snap == nil {
		return
	}
	for _, d := range snap.Degraded() {
		m.DegradedFields.WithLabelValues(d.Field, d.Status.String()).Inc()
	}
}

// ObserveFetch records one provider request.
func (m *Metrics) ObserveFetch(provider, kind string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(provider, kind).Observe(elapsed.Seconds())
	if err != nil {
		m.FetchErrors.WithLabelValues(provider, kind).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
