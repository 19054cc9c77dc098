// Package dispatch реализует общий для всех операций алгоритм
// fetch → partition → dispatch → aggregate.
//
// # Обзор
//
// Dispatcher.Run выполняет одну операцию:
//
//  1. Проверяет отмену (только здесь, до любого сетевого вызова)
//  2. GET fetch URL — список идентификаторов бронирований
//  3. Partition — разбиение на упорядоченные чанки размером ≤ ChunkSize
//  4. Последовательный POST каждого чанка в process URL
//  5. Агрегация результатов в domain.OperationReport
//
// Начатая операция доводится до конца даже если контекст отменён:
// отмена кооперативная и проверяется только на границе операций.
//
// # Ошибки
//
// Граница локализации ошибок — Run:
//   - не-2xx и транспортные ошибки fetch → операция пропускается, Run возвращает nil
//   - не-2xx и транспортные ошибки чанка → чанк пропускается, остальные отправляются
//   - некорректный JSON (MalformedResponseError) и ошибки аутентификации
//     возвращаются из Run и прерывают весь проход
//
// # Формы тела
//
// Семейства endpoint'ов принимают и отдают список идентификаторов либо
// голым массивом ([1,2,3]), либо в объекте ({"bookingIds":[1,2,3]}).
// Форма задаётся в domain.OperationSpec и одинакова для fetch и process.
package dispatch
