package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shaiso/Paysweep/internal/telemetry"
)

// leaseKey — единственный ключ singleflight: lease на процесс один.
const leaseKey = "lease"

// Exchanger выполняет обмен client credentials на access token.
//
// lifetime — время жизни токена (expires_in), отсчитывается от момента
// завершения обмена.
type Exchanger interface {
	Exchange(ctx context.Context) (token string, lifetime time.Duration, err error)
}

// TokenCache кэширует один Lease и обновляет его single-flight.
//
// Мьютекс принадлежит экземпляру, поэтому независимые TokenCache
// (например, в тестах) не конкурируют между собой.
type TokenCache struct {
	exchanger Exchanger
	metrics   *telemetry.Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.RWMutex
	lease Lease

	flight singleflight.Group
}

// Config — конфигурация TokenCache.
type Config struct {
	Exchanger Exchanger

	// Metrics — опционально.
	Metrics *telemetry.Metrics

	// Logger — если nil, используется slog.Default().
	Logger *slog.Logger

	// Now — источник времени (для тестов). По умолчанию time.Now.
	Now func() time.Time
}

// NewTokenCache создаёт новый TokenCache.
func NewTokenCache(cfg Config) *TokenCache {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &TokenCache{
		exchanger: cfg.Exchanger,
		metrics:   cfg.Metrics,
		logger:    logger,
		now:       now,
	}
}

// Acquire возвращает действующий lease, при необходимости обновляя его.
//
// Безопасен для конкурентного вызова. Если lease истёк, обмен выполняет
// ровно один вызывающий, остальные ждут и получают опубликованный lease.
func (c *TokenCache) Acquire(ctx context.Context) (Lease, error) {
	if lease, ok := c.current(); ok {
		return lease, nil
	}

	v, err, shared := c.flight.Do(leaseKey, func() (any, error) {
		// Предыдущий flight мог опубликовать lease между current() и Do.
		if lease, ok := c.current(); ok {
			return lease, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		return Lease{}, err
	}

	if shared {
		c.logger.Debug("token lease shared with concurrent caller")
	}

	return v.(Lease), nil
}

// Token возвращает строку токена из действующего lease.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	lease, err := c.Acquire(ctx)
	if err != nil {
		return "", err
	}
	return lease.Token, nil
}

// Invalidate сбрасывает текущий lease.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.lease = Lease{}
	c.mu.Unlock()
}

// current возвращает lease, если он ещё действителен.
func (c *TokenCache) current() (Lease, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.lease.Valid(c.now()) {
		return c.lease, true
	}
	return Lease{}, false
}

// refresh выполняет обмен и публикует новый lease.
//
// Отмена контекста одного вызывающего не должна обрывать обмен,
// результат которого ждут остальные.
func (c *TokenCache) refresh(ctx context.Context) (Lease, error) {
	c.logger.Debug("requesting access token")

	token, lifetime, err := c.exchanger.Exchange(context.WithoutCancel(ctx))
	if err == nil && token == "" {
		err = ErrEmptyToken
	}
	c.metrics.ObserveTokenRefresh(err)

	if err != nil {
		var authErr *AuthenticationError
		if !errors.As(err, &authErr) {
			authErr = &AuthenticationError{Detail: err.Error(), Err: err}
		}
		c.logger.Warn("access token request failed", "error", authErr.Detail)
		return Lease{}, authErr
	}

	lease := Lease{
		Token:     token,
		ExpiresAt: c.now().Add(lifetime),
	}

	c.mu.Lock()
	c.lease = lease
	c.mu.Unlock()

	c.logger.Info("access token refreshed", "expires_at", lease.ExpiresAt)

	return lease, nil
}
