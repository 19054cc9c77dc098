package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Paysweep/internal/domain"
	"github.com/shaiso/Paysweep/internal/schedule"
	"github.com/shaiso/Paysweep/internal/telemetry"
)

// defaultFinalizeTimeout — сколько даётся на публикацию итога и push метрик.
const defaultFinalizeTimeout = 10 * time.Second

// Runner выполняет одну операцию (dispatch.Dispatcher).
type Runner interface {
	Run(ctx context.Context, spec domain.OperationSpec) (*domain.OperationReport, error)
}

// Lifetime — хост процесса. StopApplication вызывается ровно один раз
// после завершения прохода, с любым исходом.
type Lifetime interface {
	StopApplication()
}

// Locker — блокировка прохода (repo.RunLock).
type Locker interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Notifier публикует итог прохода (mq.Publisher).
type Notifier interface {
	PublishRunCompleted(ctx context.Context, summary *domain.RunSummary) error
}

// Orchestrator — точка входа прохода.
type Orchestrator struct {
	runner     Runner
	operations []domain.OperationSpec
	lifetime   Lifetime

	locker   Locker
	notifier Notifier
	metrics  *telemetry.Metrics
	schedule *schedule.Schedule

	pushURL string
	pushJob string

	finalizeTimeout time.Duration

	runID  uuid.UUID
	logger *slog.Logger
	now    func() time.Time

	state    stateMachine
	once     sync.Once
	stopOnce sync.Once
	summary  *domain.RunSummary
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Runner — исполнитель операций (обязательно).
	Runner Runner

	// Operations — операции в порядке выполнения.
	Operations []domain.OperationSpec

	// Lifetime — хост процесса (обязательно).
	Lifetime Lifetime

	// Locker — опционально; nil — без блокировки.
	Locker Locker

	// Notifier — опционально; nil — итог только в логе.
	Notifier Notifier

	// Metrics — опционально.
	Metrics *telemetry.Metrics

	// Schedule — опционально; используется для next_run_at в итоге.
	Schedule *schedule.Schedule

	// PushURL, PushJob — Pushgateway; пустой PushURL отключает push.
	PushURL string
	PushJob string

	// FinalizeTimeout — таймаут публикации итога и push (default: 10s).
	FinalizeTimeout time.Duration

	// RunID — идентификатор прохода; пустой — генерируется.
	RunID uuid.UUID

	// Logger
	Logger *slog.Logger

	// Now — источник времени (для тестов).
	Now func() time.Time
}

// New создаёт новый Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Runner == nil {
		return nil, ErrNoRunner
	}
	if cfg.Lifetime == nil {
		return nil, ErrNoLifetime
	}

	runID := cfg.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	finalizeTimeout := cfg.FinalizeTimeout
	if finalizeTimeout <= 0 {
		finalizeTimeout = defaultFinalizeTimeout
	}

	return &Orchestrator{
		runner:          cfg.Runner,
		operations:      cfg.Operations,
		lifetime:        cfg.Lifetime,
		locker:          cfg.Locker,
		notifier:        cfg.Notifier,
		metrics:         cfg.Metrics,
		schedule:        cfg.Schedule,
		pushURL:         cfg.PushURL,
		pushJob:         cfg.PushJob,
		finalizeTimeout: finalizeTimeout,
		runID:           runID,
		logger:          telemetry.WithRunID(logger, runID.String()),
		now:             now,
	}, nil
}

// RunID возвращает идентификатор прохода.
func (o *Orchestrator) RunID() uuid.UUID {
	return o.runID
}

// State возвращает текущее состояние.
func (o *Orchestrator) State() State {
	return o.state.get()
}

// Run выполняет проход и возвращает его итог.
//
// Повторный вызов ничего не выполняет и возвращает итог первого прохода.
func (o *Orchestrator) Run(ctx context.Context) *domain.RunSummary {
	o.once.Do(func() {
		o.summary = o.run(ctx)
	})
	return o.summary
}

func (o *Orchestrator) run(ctx context.Context) *domain.RunSummary {
	summary := domain.NewRunSummary(o.now())
	summary.ID = o.runID

	o.state.advance(StateRunning)
	defer o.terminate(ctx, summary)

	if err := ctx.Err(); err != nil {
		o.logger.Warn("run cancelled before start", "reason", err)
		summary.Finish(domain.RunStatusCancelled, nil, o.now())
		return summary
	}

	if o.locker != nil {
		acquired, err := o.locker.TryAcquire(ctx)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrLock, err)
			telemetry.Critical(ctx, o.logger, "run aborted", "error", err)
			summary.Finish(domain.RunStatusFailed, err, o.now())
			return summary
		}
		if !acquired {
			o.logger.Warn("another run is in progress, skipping")
			summary.Finish(domain.RunStatusSkipped, nil, o.now())
			return summary
		}
		defer o.releaseLock(ctx)
	}

	o.logger.Info("run started", "operations", len(o.operations))

	status, err := o.runOperations(ctx, summary)
	summary.Finish(status, err, o.now())
	return summary
}

// runOperations выполняет операции по порядку до первой ошибки.
func (o *Orchestrator) runOperations(ctx context.Context, summary *domain.RunSummary) (domain.RunStatus, error) {
	for _, spec := range o.operations {
		report, err := o.runner.Run(ctx, spec)
		if report != nil {
			summary.Operations = append(summary.Operations, *report)
		}

		if err == nil {
			continue
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			o.logger.Warn("run cancelled", "next_operation", spec.Name, "reason", err)
			return domain.RunStatusCancelled, nil
		}

		err = fmt.Errorf("operation %s: %w", spec.Name, err)
		telemetry.Critical(ctx, o.logger, "run aborted",
			"operation", spec.Name,
			"error", err,
		)
		return domain.RunStatusFailed, err
	}

	return domain.RunStatusSucceeded, nil
}

func (o *Orchestrator) releaseLock(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.finalizeTimeout)
	defer cancel()
	if err := o.locker.Release(ctx); err != nil {
		o.logger.Warn("failed to release run lock", "error", err)
	}
}

// terminate выполняется после любого исхода прохода.
func (o *Orchestrator) terminate(ctx context.Context, summary *domain.RunSummary) {
	if o.schedule != nil {
		next := o.schedule.Next(summary.FinishedAt)
		summary.NextRunAt = &next
	}

	o.logger.Info("run completed",
		"status", summary.Status,
		"operations", len(summary.Operations),
		"duration", summary.Duration(),
		"error", summary.Error,
	)

	o.metrics.ObserveRun(summary)

	// Отмена процесса не должна мешать доставить итог.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.finalizeTimeout)
	defer cancel()

	if o.notifier != nil {
		if err := o.notifier.PublishRunCompleted(ctx, summary); err != nil {
			o.logger.Warn("failed to publish run summary", "error", err)
		}
	}

	if o.pushURL != "" {
		if err := o.metrics.Push(ctx, o.pushURL, o.pushJob); err != nil {
			o.logger.Warn("failed to push metrics", "error", err)
		}
	}

	o.stop()
}

// stop сообщает хосту о завершении. Идемпотентно.
func (o *Orchestrator) stop() {
	o.stopOnce.Do(func() {
		o.state.advance(StateTerminated)
		o.lifetime.StopApplication()
	})
}
