package apiclient

import "errors"

// Ошибки клиента.
var (
	// ErrTransport — запрос не дошёл до API или ответ не прочитан (сеть, таймаут).
	ErrTransport = errors.New("transport failure")

	// ErrNoTokenSource — клиент создан без TokenSource.
	ErrNoTokenSource = errors.New("token source is not configured")
)
