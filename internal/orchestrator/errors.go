package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrNoRunner — не задан исполнитель операций.
	ErrNoRunner = errors.New("operation runner is not configured")

	// ErrNoLifetime — не задан хост, которому отправляется сигнал остановки.
	ErrNoLifetime = errors.New("lifetime is not configured")

	// ErrLock — не удалось проверить блокировку прохода.
	ErrLock = errors.New("run lock check failed")
)
