package domain

// RunStatus — итоговый статус прохода воркера.
//
// Жизненный цикл:
//
//	RUNNING → SUCCEEDED
//	        ↘ FAILED
//	(или) → CANCELLED (отмена до начала прохода)
//	(или) → SKIPPED (проход уже выполняет другой экземпляр)
type RunStatus string

const (
	// RunStatusRunning — проход выполняется.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusSucceeded — все операции отработали без фатальных ошибок.
	// Отдельные неудачные чанки не делают проход FAILED.
	RunStatusSucceeded RunStatus = "SUCCEEDED"

	// RunStatusFailed — проход прерван ошибкой, вышедшей за пределы операции
	// (ошибка аутентификации, некорректный ответ API).
	RunStatusFailed RunStatus = "FAILED"

	// RunStatusCancelled — остановка процесса запрошена до начала прохода.
	RunStatusCancelled RunStatus = "CANCELLED"

	// RunStatusSkipped — не удалось взять блокировку прохода.
	RunStatusSkipped RunStatus = "SKIPPED"
)

// IsTerminal возвращает true, если статус финальный.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusCancelled, RunStatusSkipped:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление RunStatus.
func (s RunStatus) String() string {
	return string(s)
}

// BatchResult — результат отправки одного чанка.
type BatchResult string

const (
	// BatchResultSucceeded — 2xx и hasErrors=false.
	BatchResultSucceeded BatchResult = "succeeded"

	// BatchResultWithErrors — 2xx, но API сообщил hasErrors=true.
	BatchResultWithErrors BatchResult = "with_errors"

	// BatchResultRejected — не-2xx ответ или транспортная ошибка.
	BatchResultRejected BatchResult = "rejected"
)
