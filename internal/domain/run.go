package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationReport — агрегированный результат одной операции за проход.
type OperationReport struct {
	// Name — имя операции.
	Name string `json:"name"`

	// Items — сколько идентификаторов вернул fetch.
	Items int `json:"items"`

	// Batches — сколько чанков было отправлено.
	Batches int `json:"batches"`

	// Succeeded, WithErrors, Rejected — разбивка чанков по результату.
	Succeeded  int `json:"succeeded"`
	WithErrors int `json:"with_errors"`
	Rejected   int `json:"rejected"`

	// Skipped — причина, по которой операция не дошла до отправки чанков
	// (fetch вернул не-2xx, транспортная ошибка). Пусто, если не пропущена.
	Skipped string `json:"skipped,omitempty"`

	// Duration — длительность операции.
	Duration time.Duration `json:"duration_ns"`
}

// Record учитывает результат одного чанка.
func (r *OperationReport) Record(result BatchResult) {
	r.Batches++
	switch result {
	case BatchResultSucceeded:
		r.Succeeded++
	case BatchResultWithErrors:
		r.WithErrors++
	case BatchResultRejected:
		r.Rejected++
	}
}

// RunSummary — итог одного прохода воркера.
//
// Публикуется в RabbitMQ (если настроен) и пишется в лог.
// Между проходами не сохраняется.
type RunSummary struct {
	// ID — уникальный идентификатор прохода.
	ID uuid.UUID `json:"id"`

	// Status — итоговый статус.
	Status RunStatus `json:"status"`

	// StartedAt, FinishedAt — границы прохода.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Operations — отчёты по выполненным операциям в порядке выполнения.
	Operations []OperationReport `json:"operations"`

	// Error — текст ошибки, прервавшей проход.
	Error string `json:"error,omitempty"`

	// NextRunAt — ожидаемое время следующего прохода по расписанию (если задано).
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

// NewRunSummary создаёт RunSummary в статусе RUNNING.
func NewRunSummary(now time.Time) *RunSummary {
	return &RunSummary{
		ID:        uuid.New(),
		Status:    RunStatusRunning,
		StartedAt: now,
	}
}

// Duration возвращает продолжительность прохода.
// Возвращает 0, если проход ещё не завершён.
func (r *RunSummary) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Finish переводит проход в финальный статус.
func (r *RunSummary) Finish(status RunStatus, err error, now time.Time) {
	r.Status = status
	r.FinishedAt = now
	if err != nil {
		r.Error = err.Error()
	}
}
