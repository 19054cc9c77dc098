package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/shaiso/Paysweep/internal/domain"
)

// Metrics — метрики одного прохода.
//
// Используется собственный registry, а не глобальный: в Pushgateway
// уходит только то, что относится к проходу, и тесты не делят состояние.
//
// Все методы безопасны для nil-получателя.
type Metrics struct {
	registry *prometheus.Registry

	batches       *prometheus.CounterVec
	workItems     *prometheus.CounterVec
	tokenRefresh  *prometheus.CounterVec
	opDuration    *prometheus.HistogramVec
	runCompletion *prometheus.GaugeVec
	nextRun       prometheus.Gauge
}

// NewMetrics создаёт и регистрирует метрики.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paysweep_batches_total",
			Help: "Batches posted to processing endpoints by result",
		}, []string{"operation", "result"}),
		workItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paysweep_work_items_total",
			Help: "Booking ids returned by fetch endpoints",
		}, []string{"operation"}),
		tokenRefresh: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paysweep_token_refresh_total",
			Help: "Client credentials exchanges by result",
		}, []string{"result"}),
		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paysweep_operation_duration_seconds",
			Help:    "Wall time of one operation",
			Buckets: prometheus.ExponentialBuckets(0.5, 4, 8),
		}, []string{"operation"}),
		runCompletion: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paysweep_run_last_completion_timestamp_seconds",
			Help: "Unix time of the last finished run by status",
		}, []string{"status"}),
		nextRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "paysweep_run_next_scheduled_timestamp_seconds",
			Help: "Unix time the next run is expected by the schedule",
		}),
	}
}

// Registry возвращает registry метрик.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler возвращает http.Handler для /metrics.
// Кроме метрик прохода отдаёт метрики Go runtime и процесса.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	gatherers := prometheus.Gatherers{m.registry, runtimeRegistry()}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// runtimeRegistry — registry с go/process collectors.
func runtimeRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ObserveBatch учитывает один отправленный чанк.
func (m *Metrics) ObserveBatch(operation string, result domain.BatchResult) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(operation, string(result)).Inc()
}

// AddWorkItems учитывает идентификаторы, полученные от fetch.
func (m *Metrics) AddWorkItems(operation string, n int) {
	if m == nil {
		return
	}
	m.workItems.WithLabelValues(operation).Add(float64(n))
}

// ObserveTokenRefresh учитывает обмен client credentials.
func (m *Metrics) ObserveTokenRefresh(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.tokenRefresh.WithLabelValues(result).Inc()
}

// ObserveOperation учитывает длительность операции.
func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveRun фиксирует завершение прохода.
func (m *Metrics) ObserveRun(summary *domain.RunSummary) {
	if m == nil || summary == nil {
		return
	}
	m.runCompletion.WithLabelValues(summary.Status.String()).Set(float64(summary.FinishedAt.Unix()))
	if summary.NextRunAt != nil {
		m.nextRun.Set(float64(summary.NextRunAt.Unix()))
	}
}

// Push отправляет метрики прохода в Pushgateway.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
