package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

var _ Slot = (*RedisSlot)(nil)

// RedisSlot guarda cada slot como una clave de Redis sin expiración.
type RedisSlot struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisSlot conecta a Redis y verifica con PING.
func NewRedisSlot(ctx context.Context, addr, password string, db int) (*RedisSlot, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisSlot{rdb: rdb, prefix: "slot:"}, nil
}

// Load lee el blob; una clave ausente no es error.
func (s *RedisSlot) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.prefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer slot %q: %w", name, err)
	}
	return data, nil
}

// Save reemplaza el blob.
func (s *RedisSlot) Save(ctx context.Context, name string, data []byte) error {
	if err := s.rdb.Set(ctx, s.prefix+name, data, 0).Err(); err != nil {
		return fmt.Errorf("escribir slot %q: %w", name, err)
	}
	return nil
}

// Close cierra el cliente.
func (s *RedisSlot) Close() error {
	return s.rdb.Close()
}
