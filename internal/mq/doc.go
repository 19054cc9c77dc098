// Package mq публикует события воркера в RabbitMQ.
//
// Структура:
//   - connection.go — соединение и канал AMQP
//   - topology.go   — объявление exchange, очереди и binding
//   - publisher.go  — публикация итога прохода
//
// Типы сообщений:
//   - run.completed — проход завершён (любой финальный статус)
//
// Exchanges:
//   - paysweep.runs — события проходов
//
// Публикация best effort: ошибки логируются и не меняют итог прохода.
package mq
