package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/Paysweep/internal/apiclient"
	"github.com/shaiso/Paysweep/internal/auth"
	"github.com/shaiso/Paysweep/internal/config"
	"github.com/shaiso/Paysweep/internal/dispatch"
	"github.com/shaiso/Paysweep/internal/domain"
	"github.com/shaiso/Paysweep/internal/host"
	"github.com/shaiso/Paysweep/internal/mq"
	"github.com/shaiso/Paysweep/internal/orchestrator"
	"github.com/shaiso/Paysweep/internal/repo"
	"github.com/shaiso/Paysweep/internal/schedule"
	"github.com/shaiso/Paysweep/internal/telemetry"
)

// runWorker собирает зависимости и выполняет один проход.
//
// Ошибка возвращается только если проход не удалось начать. Итог самого
// прохода (в том числе FAILED) на код выхода не влияет.
func runWorker(ctx context.Context, cfg *config.Config) error {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	runID := uuid.New()
	logger.Info("starting paysweep-worker", "version", version, "run_id", runID.String())

	specs, err := cfg.Specs()
	if err != nil {
		return err
	}

	var sched *schedule.Schedule
	if cfg.Schedule.Cron != "" {
		sched, err = schedule.Parse(cfg.Schedule.Cron, cfg.Schedule.Timezone)
		if err != nil {
			return err
		}
	}

	metrics := telemetry.NewMetrics()

	// Identity + EDO API
	exchanger, err := auth.NewClientCredentials(auth.ClientCredentialsConfig{
		Authority:    cfg.Identity.Authority,
		ClientID:     cfg.Identity.ClientID,
		ClientSecret: cfg.Identity.ClientSecret,
		Scopes:       []string{cfg.Identity.Scope},
		HTTPClient:   &http.Client{Timeout: cfg.API.Timeout},
	})
	if err != nil {
		return fmt.Errorf("identity: %w", err)
	}

	tokens := auth.NewTokenCache(auth.Config{
		Exchanger: exchanger,
		Metrics:   metrics,
		Logger:    logger,
	})
	defer tokens.Invalidate()

	client := apiclient.New(apiclient.Config{
		Tokens:  tokens,
		Timeout: cfg.API.Timeout,
		RunID:   runID.String(),
		Logger:  logger,
	})

	dispatcher := dispatch.New(dispatch.Config{
		Client:  client,
		Metrics: metrics,
		Logger:  telemetry.WithRunID(logger, runID.String()),
	})

	// PostgreSQL: блокировка прохода (опционально)
	var locker orchestrator.Locker
	if cfg.Database.URL != "" {
		pool, err := repo.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("run lock database: %w", err)
		}
		defer pool.Close()
		locker = repo.NewRunLock(pool, cfg.Database.LockKey, logger)
		logger.Info("database connected", "lock_key", cfg.Database.LockKey)
	}

	// RabbitMQ: итог прохода (опционально, best effort)
	var notifier orchestrator.Notifier
	if cfg.RabbitMQ.URL != "" {
		if n := connectNotifier(ctx, cfg.RabbitMQ.URL, logger); n != nil {
			defer n.close()
			notifier = n
		}
	}

	h := host.New(host.Config{
		Addr:    cfg.HTTP.Addr,
		Metrics: metrics.Handler(),
		Logger:  logger,
	})

	orch, err := orchestrator.New(orchestrator.Config{
		Runner:     dispatcher,
		Operations: specs,
		Lifetime:   h,
		Locker:     locker,
		Notifier:   notifier,
		Metrics:    metrics,
		Schedule:   sched,
		PushURL:    cfg.Pushgateway.URL,
		PushJob:    cfg.Pushgateway.Job,
		RunID:      runID,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	var summary *domain.RunSummary
	if err := h.Run(ctx, func(ctx context.Context) {
		summary = orch.Run(ctx)
	}); err != nil {
		return err
	}

	logger.Info("paysweep-worker stopped", "status", summary.Status)
	return nil
}

// mqNotifier держит соединение на время прохода.
type mqNotifier struct {
	*mq.Publisher
	conn   *mq.Connection
	logger *slog.Logger
}

func (n *mqNotifier) close() {
	if err := n.conn.Close(); err != nil {
		n.logger.Warn("failed to close RabbitMQ connection", "error", err)
	}
}

// connectNotifier подключается к RabbitMQ. Недоступный брокер не мешает
// проходу: итог останется только в логе.
func connectNotifier(ctx context.Context, url string, logger *slog.Logger) *mqNotifier {
	conn, err := mq.Dial(url, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, run summary will not be published", "error", err)
		return nil
	}
	logger.Info("RabbitMQ connected")

	// Создаём топологию
	if err := mq.SetupTopology(ctx, conn); err != nil {
		logger.Warn("failed to setup topology", "error", err)
	}

	return &mqNotifier{
		Publisher: mq.NewPublisher(conn, logger),
		conn:      conn,
		logger:    logger,
	}
}
