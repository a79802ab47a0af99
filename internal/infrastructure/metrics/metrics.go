// Package metrics expone métricas Prometheus del servicio sobre un registro propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/cmv-api/internal/application/report"
)

var _ report.ReportMetrics = (*Metrics)(nil)

// Metrics agrupa los colectores de HTTP y de reportes.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	reportDuration      *prometheus.HistogramVec
	reportErrors        *prometheus.CounterVec
	reportAdvisories    *prometheus.CounterVec
}

// New registra los colectores con el prefijo dado (ej. "cmv" → cmv_http_requests_total).
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	if prefix != "" {
		prefix += "_"
	}

	return &Metrics{
		registry: reg,
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		reportDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "report_duration_seconds",
				Help:    "Time spent loading data and computing a report",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"report"},
		),
		reportErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "report_errors_total",
				Help: "Reports that ended with an error",
			},
			[]string{"report"},
		),
		reportAdvisories: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "report_advisories_total",
				Help: "Report lines flagged with a data-quality advisory",
			},
			[]string{"report", "flag"},
		),
	}
}

// ObserveHTTP registra una solicitud atendida. path debe ser la ruta registrada, no la URL cruda.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveReport registra la duración del reporte y si terminó con error.
func (m *Metrics) ObserveReport(kind string, elapsed time.Duration, err error) {
	m.reportDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err != nil {
		m.reportErrors.WithLabelValues(kind).Inc()
	}
}

// AddAdvisories suma las líneas marcadas con una advertencia de calidad de datos.
func (m *Metrics) AddAdvisories(kind, flag string, n int) {
	if n <= 0 {
		return
	}
	m.reportAdvisories.WithLabelValues(kind, flag).Add(float64(n))
}

// Handler sirve el registro en formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry expone el registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
