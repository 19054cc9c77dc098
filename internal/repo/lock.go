package repo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunLock — session-level advisory lock PostgreSQL.
//
// Не даёт двум экземплярам воркера делать проход одновременно
// (например, ручной запуск поверх cron). Advisory lock привязан к сессии,
// поэтому блокировка держит выделенное соединение из пула до Release.
type RunLock struct {
	pool   *pgxpool.Pool
	key    int64
	logger *slog.Logger

	mu   sync.Mutex
	conn *pgxpool.Conn
}

// NewRunLock создаёт блокировку с ключом key.
func NewRunLock(pool *pgxpool.Pool, key int64, logger *slog.Logger) *RunLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunLock{pool: pool, key: key, logger: logger}
}

// TryAcquire пытается взять блокировку без ожидания.
// false без ошибки — блокировку держит другой экземпляр.
func (l *RunLock) TryAcquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return true, nil
	}

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire conn: %w", err)
	}

	var ok bool
	if err := conn.QueryRow(ctx, "select pg_try_advisory_lock($1)", l.key).Scan(&ok); err != nil {
		conn.Release()
		return false, fmt.Errorf("try advisory lock: %w", err)
	}

	if !ok {
		conn.Release()
		return false, nil
	}

	l.conn = conn
	l.logger.Debug("run lock acquired", "lock_key", l.key)
	return true, nil
}

// Release снимает блокировку и возвращает соединение в пул.
func (l *RunLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return ErrLockNotHeld
	}

	conn := l.conn
	l.conn = nil

	var ok bool
	err := conn.QueryRow(ctx, "select pg_advisory_unlock($1)", l.key).Scan(&ok)
	if err != nil {
		// соединение с висящей блокировкой нельзя отдавать обратно в пул
		_ = conn.Conn().Close(ctx)
		conn.Release()
		return fmt.Errorf("advisory unlock: %w", err)
	}
	conn.Release()

	if !ok {
		l.logger.Warn("run lock was not held by this session", "lock_key", l.key)
	}
	l.logger.Debug("run lock released", "lock_key", l.key)
	return nil
}
