// Package metrics define os coletores Prometheus da API e o handler de exposição.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	AggregationsTotal    *prometheus.CounterVec
	AggregationDuration  *prometheus.HistogramVec
	DatastoreUp          prometheus.Gauge
}

// New cria os coletores em um registry próprio, o que permite várias instâncias nos testes
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total de requisições HTTP por método, rota e status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latência das requisições HTTP em segundos.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Requisições HTTP em processamento.",
			},
		),
		AggregationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aggregations_total",
				Help: "Total de agregações executadas por plano e resultado (ok, error, timeout).",
			},
			[]string{"plan", "result"},
		),
		AggregationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aggregation_duration_seconds",
				Help:    "Duração das agregações no datastore em segundos.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"plan"},
		),
		DatastoreUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "datastore_up",
				Help: "1 se o último ping no datastore teve sucesso, 0 caso contrário.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.AggregationsTotal,
		m.AggregationDuration,
		m.DatastoreUp,
	)

	return m
}

// Handler expõe as métricas no formato do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAggregation registra a duração e o resultado de uma agregação. Aceita receptor nil.
func (m *Metrics) ObserveAggregation(plan, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AggregationsTotal.WithLabelValues(plan, result).Inc()
	m.AggregationDuration.WithLabelValues(plan).Observe(elapsed.Seconds())
}

// SetDatastoreUp atualiza o gauge de disponibilidade do datastore. Aceita receptor nil.
func (m *Metrics) SetDatastoreUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.DatastoreUp.Set(1)
		return
	}
	m.DatastoreUp.Set(0)
}
