// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - набор коллекторов приложения со своим реестром.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	staleTotal    *prometheus.CounterVec
	mutationTotal *prometheus.CounterVec
	workspaces    prometheus.Gauge
}

// New создает реестр и регистрирует все метрики. Для тестов каждый вызов независим.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		fetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formadmin",
			Name:      "source_fetch_total",
			Help:      "Total number of record source fetches.",
		}, []string{"source", "result"}),
		fetchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "formadmin",
			Name:      "source_fetch_seconds",
			Help:      "Latency distribution for record source fetches.",
			Buckets: []float64{
				0.01, 0.05, 0.1, 0.25, 0.5,
				1, 2.5, 5, 10,
			},
		}, []string{"source"}),
		staleTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formadmin",
			Name:      "dashboard_stale_responses_total",
			Help:      "Chart responses dropped because a newer request was issued.",
		}, []string{"panel"}),
		mutationTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formadmin",
			Name:      "list_mutations_total",
			Help:      "Edits and deletions applied to session lists.",
		}, []string{"entity", "op"}),
		workspaces: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "formadmin",
			Name:      "workspaces",
			Help:      "Current number of live session workspaces.",
		}),
	}
}

// ObserveFetch учитывает один запрос к источнику.
func (m *Metrics) ObserveFetch(source string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetchTotal.WithLabelValues(source, result).Inc()
	m.fetchLatency.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

func (m *Metrics) StaleResponse(panel string) {
	if m == nil {
		return
	}
	m.staleTotal.WithLabelValues(panel).Inc()
}

// Mutation: op - "edit" или "delete".
func (m *Metrics) Mutation(entity, op string) {
	if m == nil {
		return
	}
	m.mutationTotal.WithLabelValues(entity, op).Inc()
}

func (m *Metrics) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.workspaces.Set(float64(n))
}

// Registry нужен тестам для prometheus/testutil.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler отдает /metrics из собственного реестра.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
