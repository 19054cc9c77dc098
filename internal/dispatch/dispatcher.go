package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Paysweep/internal/apiclient"
	"github.com/shaiso/Paysweep/internal/domain"
	"github.com/shaiso/Paysweep/internal/telemetry"
)

// maxLoggedBody — сколько байт тела ответа попадает в лог.
const maxLoggedBody = 1000

// notifyPath — суффикс endpoint'а уведомлений.
const notifyPath = "/send"

// Sender — HTTP-клиент EDO API (apiclient.Client).
type Sender interface {
	Get(ctx context.Context, url string) (*apiclient.Response, error)
	Post(ctx context.Context, url string, body []byte) (*apiclient.Response, error)
}

// Dispatcher выполняет операции сверки.
type Dispatcher struct {
	client  Sender
	metrics *telemetry.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Config — конфигурация Dispatcher.
type Config struct {
	// Client — HTTP-клиент с аутентификацией (обязательно).
	Client Sender

	// Metrics — опционально.
	Metrics *telemetry.Metrics

	// Logger
	Logger *slog.Logger

	// Now — источник времени для point-in-time URL (для тестов).
	Now func() time.Time
}

// New создаёт новый Dispatcher.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Dispatcher{
		client:  cfg.Client,
		metrics: cfg.Metrics,
		logger:  logger,
		now:     now,
	}
}

// Run выполняет одну операцию.
//
// Возвращает ошибку только если проход нужно прервать: отмена до старта,
// ошибка аутентификации, некорректный ответ API. Отказы API и транспортные
// ошибки логируются и в ошибку не превращаются.
func (d *Dispatcher) Run(ctx context.Context, spec domain.OperationSpec) (*domain.OperationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Дальше отмена не опрашивается: начатая операция доводится до конца.
	ctx = context.WithoutCancel(ctx)

	logger := telemetry.WithOperation(d.logger, spec.Name)
	report := &domain.OperationReport{Name: spec.Name}
	start := d.now()

	var err error
	switch spec.Kind {
	case domain.OperationKindBatch, "":
		err = d.runBatches(ctx, logger, spec, report)
	case domain.OperationKindNotify:
		err = d.runNotify(ctx, logger, spec, report)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownKind, spec.Kind)
	}

	report.Duration = d.now().Sub(start)
	d.metrics.ObserveOperation(spec.Name, report.Duration)

	if err != nil {
		return report, err
	}

	logger.Info("operation completed",
		"items", report.Items,
		"batches", report.Batches,
		"succeeded", report.Succeeded,
		"with_errors", report.WithErrors,
		"rejected", report.Rejected,
		"skipped", report.Skipped,
		"duration", report.Duration,
	)

	return report, nil
}

// runBatches — fetch → partition → последовательная отправка чанков.
func (d *Dispatcher) runBatches(ctx context.Context, logger *slog.Logger, spec domain.OperationSpec, report *domain.OperationReport) error {
	fetchURL := spec.ResolveFetchURL(d.now())

	resp, err := d.client.Get(ctx, fetchURL)
	if err != nil {
		if errors.Is(err, apiclient.ErrTransport) {
			logger.Error("operation failed", "stage", "fetch", "url", fetchURL, "error", err)
			report.Skipped = "fetch transport failure"
			return nil
		}
		return fmt.Errorf("fetch %s: %w", spec.Name, err)
	}

	if !resp.IsSuccess() {
		logger.Error("operation failed",
			"stage", "fetch",
			"url", fetchURL,
			"status", resp.StatusCode,
			"body", truncate(string(resp.Body), maxLoggedBody),
		)
		report.Skipped = fmt.Sprintf("fetch status %d", resp.StatusCode)
		return nil
	}

	ids, err := DecodeIDs(resp.Body, spec.Shape, spec.FieldName())
	if err != nil {
		return &MalformedResponseError{
			Operation: spec.Name,
			Stage:     "fetch",
			URL:       fetchURL,
			Body:      truncate(string(resp.Body), maxLoggedBody),
			Err:       err,
		}
	}

	report.Items = len(ids)
	d.metrics.AddWorkItems(spec.Name, len(ids))

	if len(ids) == 0 {
		logger.Info("nothing to do for operation")
		return nil
	}

	batches, err := Partition(ids, spec.ChunkSize)
	if err != nil {
		return fmt.Errorf("partition %s: %w", spec.Name, err)
	}

	logger.Info("dispatching batches",
		"items", len(ids),
		"batches", len(batches),
		"chunk_size", spec.ChunkSize,
	)

	for i, batch := range batches {
		result, err := d.dispatchBatch(ctx, logger.With("batch", i+1, "batches", len(batches)), spec, batch)
		if err != nil {
			return err
		}
		report.Record(result)
		d.metrics.ObserveBatch(spec.Name, result)
	}

	return nil
}

// dispatchBatch отправляет один чанк.
//
// Отказ API не останавливает операцию: результат помечается rejected,
// следующий чанк всё равно отправляется.
func (d *Dispatcher) dispatchBatch(ctx context.Context, logger *slog.Logger, spec domain.OperationSpec, batch domain.Batch) (domain.BatchResult, error) {
	body, err := EncodeBatch(batch, spec.Shape, spec.FieldName())
	if err != nil {
		return "", fmt.Errorf("encode batch for %s: %w", spec.Name, err)
	}

	resp, err := d.client.Post(ctx, spec.ProcessURL, body)
	if err != nil {
		if errors.Is(err, apiclient.ErrTransport) {
			logger.Error("operation failed", "stage", "process", "size", batch.Len(), "error", err)
			return domain.BatchResultRejected, nil
		}
		return "", fmt.Errorf("process %s: %w", spec.Name, err)
	}

	if !resp.IsSuccess() {
		logger.Error("operation failed",
			"stage", "process",
			"size", batch.Len(),
			"status", resp.StatusCode,
			"body", truncate(string(resp.Body), maxLoggedBody),
		)
		return domain.BatchResultRejected, nil
	}

	outcome, err := DecodeOutcome(resp.Body)
	if err != nil {
		return "", &MalformedResponseError{
			Operation: spec.Name,
			Stage:     "process",
			URL:       spec.ProcessURL,
			Body:      truncate(string(resp.Body), maxLoggedBody),
			Err:       err,
		}
	}

	if outcome.HasErrors {
		logger.Error("batch processed with errors",
			"size", batch.Len(),
			"status", resp.StatusCode,
			"message", outcome.Message,
		)
		return domain.BatchResultWithErrors, nil
	}

	logger.Info("batch processed",
		"size", batch.Len(),
		"status", resp.StatusCode,
		"message", outcome.Message,
	)
	return domain.BatchResultSucceeded, nil
}

// runNotify — один POST <process_url>/send без тела.
func (d *Dispatcher) runNotify(ctx context.Context, logger *slog.Logger, spec domain.OperationSpec, report *domain.OperationReport) error {
	url := spec.ProcessURL + notifyPath

	resp, err := d.client.Post(ctx, url, nil)
	if err != nil {
		if errors.Is(err, apiclient.ErrTransport) {
			logger.Error("operation failed", "stage", "notify", "url", url, "error", err)
			report.Skipped = "notify transport failure"
			return nil
		}
		return fmt.Errorf("notify %s: %w", spec.Name, err)
	}

	if !resp.IsSuccess() {
		logger.Error("operation failed",
			"stage", "notify",
			"url", url,
			"status", resp.StatusCode,
			"body", truncate(string(resp.Body), maxLoggedBody),
		)
		report.Record(domain.BatchResultRejected)
		d.metrics.ObserveBatch(spec.Name, domain.BatchResultRejected)
		return nil
	}

	logger.Info("notifications sent", "status", resp.StatusCode)
	report.Record(domain.BatchResultSucceeded)
	d.metrics.ObserveBatch(spec.Name, domain.BatchResultSucceeded)
	return nil
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
