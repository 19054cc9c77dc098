// Package apiclient — HTTP-клиент EDO API с bearer-аутентификацией.
//
// Каждый исходящий запрос явно декорируется через Authorize: токен берётся
// из TokenSource (обычно auth.TokenCache) и добавляется в заголовок
// Authorization. Повторов нет: транспортные ошибки возвращаются как есть.
package apiclient
