package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus метрик сервиса
// Регистрируется в default registry, экспортируется через promhttp
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal   *prometheus.CounterVec
	DBQueryDuration  *prometheus.HistogramVec
	DBConnectionsOpen prometheus.Gauge
	DBConnectionsIdle prometheus.Gauge
	DBConnectionsWait prometheus.Gauge

	AllocationsTotal *prometheus.CounterVec
	DispatchesTotal  *prometheus.CounterVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),

		DBConnectionsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: labels,
		}),

		DBConnectionsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: labels,
		}),

		DBConnectionsWait: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_wait",
			Help:        "Number of goroutines waiting for a database connection",
			ConstLabels: labels,
		}),

		AllocationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_allocations_total",
			Help:        "Total number of booking allocation attempts by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		DispatchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "notification_dispatches_total",
			Help:        "Total number of notification dispatch attempts by channel and outcome",
			ConstLabels: labels,
		}, []string{"channel", "outcome"}),
	}
}

// ObserveAllocation учитывает результат аллокации бронирования
func (m *Metrics) ObserveAllocation(outcome string) {
	m.AllocationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDispatch учитывает результат отправки уведомления
func (m *Metrics) ObserveDispatch(channel, outcome string) {
	m.DispatchesTotal.WithLabelValues(channel, outcome).Inc()
}
