// Package cli — служебные команды paysweep-worker.
//
// Корневая команда бинаря выполняет проход; здесь собраны команды,
// которые ничего не отправляют в API:
//   - operations — список операций после разрешения URL
//   - check — проверка конфигурации и расписания
//
// Каждая команда создаётся фабричной функцией и принимает configFn и
// outputFn — замыкания, которые вызываются после разбора флагов.
//
// ## Output
//
// Два режима: таблица (text/tabwriter) по умолчанию и JSON с флагом --json.
// Данные пишутся в stdout, сообщения (Success/Error) — в stderr.
package cli
