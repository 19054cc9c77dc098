package dispatch

import (
	"errors"
	"fmt"
)

// Ошибки диспетчера.
var (
	// ErrMalformedResponse — тело ответа не соответствует ожидаемой форме.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidChunkSize — размер чанка меньше 1.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrUnknownShape — форма тела не поддерживается.
	ErrUnknownShape = errors.New("unknown body shape")

	// ErrUnknownKind — тип операции не поддерживается.
	ErrUnknownKind = errors.New("unknown operation kind")
)

// MalformedResponseError — ответ API, который не удалось разобрать.
//
// Эта ошибка не локализуется внутри операции и прерывает проход.
type MalformedResponseError struct {
	Operation string
	Stage     string // "fetch" или "process"
	URL       string
	Body      string
	Err       error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response for operation %s (%s): %v; body: %s",
		e.Stage, e.Operation, e.URL, e.Err, e.Body)
}

// Unwrap возвращает исходную ошибку разбора.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is позволяет проверять ошибку через errors.Is(err, ErrMalformedResponse).
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
