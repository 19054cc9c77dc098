// Package schedule описывает внешнее расписание запусков воркера.
//
// Воркер не планирует себя сам: его запускает внешний планировщик
// (cron, Kubernetes CronJob). Если выражение расписания указано в
// конфигурации, воркер вычисляет время следующего ожидаемого запуска и
// сообщает его в итоге прохода и в метрике — по ней алертинг замечает
// пропущенный запуск.
package schedule
