package redislock

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain"
)

func newLocker(t *testing.T, ttl time.Duration) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl), mr
}

func TestAcquire_Exclusivo(t *testing.T) {
	ctx := context.Background()
	l, mr := newLocker(t, time.Minute)
	key := ports.CreditNoteLockKey("nc1")

	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	_, err = l.Acquire(ctx, key)
	assert.ErrorIs(t, err, ErrNotAcquired)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(key))

	release, err = l.Acquire(ctx, key)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestRelease_NoBorraBloqueoAjeno(t *testing.T) {
	ctx := context.Background()
	l, mr := newLocker(t, time.Second)
	key := ports.PaymentLockKey("p1")

	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	// vence el TTL y otro proceso toma la clave
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set(key, "otro-token"))

	require.NoError(t, release(ctx))
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "otro-token", got)
}

func TestWithLock(t *testing.T) {
	ctx := context.Background()
	l, mr := newLocker(t, time.Minute)
	key := ports.PaymentLockKey("p2")

	err := ports.WithLock(ctx, l, key, func() error {
		assert.True(t, mr.Exists(key))
		_, err := l.Acquire(ctx, key)
		assert.ErrorIs(t, err, ErrNotAcquired)
		return errors.New("falla")
	})
	assert.EqualError(t, err, "falla")
	assert.False(t, mr.Exists(key))
}

func TestNew_TTLPorDefecto(t *testing.T) {
	ctx := context.Background()
	l, mr := newLocker(t, 0)
	_, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, mr.TTL("k"))
}
