// Package redislock implementa ports.Locker con Redis (SET NX PX y liberación por token).
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain"
)

var _ ports.Locker = (*Locker)(nil)

// ErrNotAcquired indica que otra instancia tiene el bloqueo.
var ErrNotAcquired = fmt.Errorf("bloqueo tomado por otro proceso: %w", domain.ErrConflict)

// DefaultTTL vence el bloqueo si el proceso que lo tiene muere sin liberarlo.
const DefaultTTL = 30 * time.Second

// releaseScript borra la clave solo si todavía tiene nuestro token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Locker bloqueos distribuidos sobre un cliente Redis.
type Locker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New construye el locker. ttl <= 0 usa DefaultTTL.
func New(client redis.UniversalClient, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Locker{client: client, ttl: ttl}
}

// Connect crea el cliente y verifica que Redis responda.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Acquire toma el bloqueo key sin esperar. Si ya está tomado devuelve ErrNotAcquired.
func (l *Locker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("redis unlock %s: %w", key, err)
		}
		return nil
	}, nil
}
