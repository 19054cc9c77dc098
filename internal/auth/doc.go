// Package auth выдаёт bearer-токены для обращений к EDO API.
//
// # TokenCache
//
// Хранит один Lease (токен + абсолютное время истечения) и обновляет его
// через client credentials grant, когда lease отсутствует или истёк.
//
// Обновление single-flight: если N запросов одновременно обнаружили
// истёкший lease, в identity-сервис уходит ровно один запрос, остальные
// ждут его завершения и получают тот же lease.
//
//	cache := auth.NewTokenCache(auth.Config{
//	    Exchanger: auth.NewClientCredentials(auth.ClientCredentialsConfig{...}),
//	    Logger:    logger,
//	})
//
//	lease, err := cache.Acquire(ctx)
//
// # Ошибки
//
// Неудачный обмен возвращает *AuthenticationError (errors.Is(err, ErrAuthentication)).
// Lease при этом не кэшируется, следующий вызов Acquire повторит обмен.
package auth
