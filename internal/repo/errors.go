package repo

import "errors"

// Ошибки пакета.
var (
	// ErrNoDSN — строка подключения не задана.
	ErrNoDSN = errors.New("database url is empty")

	// ErrLockNotHeld — Release без удачного TryAcquire.
	ErrLockNotHeld = errors.New("run lock is not held")
)
