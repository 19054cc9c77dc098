// Package host — хост одного прохода воркера.
//
// Host поднимает /healthz и /metrics на время прохода (если задан адрес),
// запускает задачу и ждёт сигнала StopApplication. После сигнала
// HTTP-сервер останавливается и Run возвращается.
package host
