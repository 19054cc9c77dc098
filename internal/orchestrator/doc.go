// Package orchestrator выполняет один проход воркера.
//
// Orchestrator отвечает за:
//   - проверку отмены до начала прохода
//   - блокировку, исключающую параллельные проходы (опционально)
//   - последовательный запуск операций в объявленном порядке
//   - остановку прохода на первой ошибке, вышедшей из операции
//   - публикацию итога, отправку метрик и ровно один сигнал остановки хосту
//
// Отказы API внутри операции сюда не доходят: их гасит dispatch.
package orchestrator
