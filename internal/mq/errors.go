package mq

import "errors"

// Ошибки пакета.
var (
	// ErrNoURL — адрес брокера не задан.
	ErrNoURL = errors.New("rabbitmq url is empty")

	// ErrClosed — соединение уже закрыто.
	ErrClosed = errors.New("amqp connection is closed")
)
