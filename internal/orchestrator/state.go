package orchestrator

import "sync"

// State — состояние оркестратора.
//
//	Idle → Running → Terminated
//
// Из Terminated выхода нет: один процесс — один проход.
type State int

const (
	// StateIdle — Run ещё не вызван.
	StateIdle State = iota

	// StateRunning — проход выполняется.
	StateRunning

	// StateTerminated — проход завершён, хосту отправлен StopApplication.
	StateTerminated
)

// String возвращает строковое представление State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// stateMachine — потокобезопасное хранение State.
// Переходы только вперёд.
type stateMachine struct {
	mu    sync.RWMutex
	state State
}

// advance переводит в to, если to позже текущего состояния.
func (m *stateMachine) advance(to State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if to <= m.state {
		return false
	}
	m.state = to
	return true
}

func (m *stateMachine) get() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
