// Package telemetry обеспечивает наблюдаемость воркера.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики прохода
//
// Воркер живёт один проход, поэтому метрики дополнительно
// отправляются в Pushgateway перед выходом (если он настроен).
package telemetry
