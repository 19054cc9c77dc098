package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_EmptyDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "")
	require.ErrorIs(t, err, ErrNoDSN)
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse dsn")
}

// Интеграционный тест: нужен живой PostgreSQL в DB_URL.
func TestRunLock_ExclusiveBetweenInstances(t *testing.T) {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		t.Skip("DB_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	key := time.Now().UnixNano()
	first := NewRunLock(pool, key, nil)
	second := NewRunLock(pool, key, nil)

	ok, err := first.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second instance must not get the lock")

	require.NoError(t, first.Release(ctx))

	ok, err = second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Release(ctx))
}

func TestRunLock_ReleaseWithoutAcquire(t *testing.T) {
	l := NewRunLock(nil, 1, nil)
	require.ErrorIs(t, l.Release(context.Background()), ErrLockNotHeld)
}
