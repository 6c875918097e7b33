// Package redis provides a Redis-backed snapshot slot store. One Redis
// key per slot; an optional TTL keeps abandoned slots from accumulating.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openpress/contentcache/backend"
)

var ErrNilClient = errors.New("redis backend: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	ttl         time.Duration
	closeClient bool
}

var _ backend.Backend = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	SlotTTL     time.Duration // optional expiry for slots; 0 => no expiry
	CloseClient bool          // set true only if this backend exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, ttl: cfg.SlotTTL, closeClient: cfg.CloseClient}, nil
}

func (b *Redis) GetItem(ctx context.Context, slot string) (string, bool, error) {
	v, err := b.rdb.Get(ctx, slot).Result()
	if err == goredis.Nil {
		return "", false, nil // miss
	}
	if err != nil {
		return "", false, err // transport/server error
	}
	return v, true, nil
}

func (b *Redis) SetItem(ctx context.Context, slot, value string) error {
	ttl := b.ttl
	if ttl < 0 {
		ttl = 0 // treat negative TTLs as "no expiry" per backend contract
	}
	return b.rdb.Set(ctx, slot, value, ttl).Err()
}

func (b *Redis) RemoveItem(ctx context.Context, slot string) error {
	return b.rdb.Del(ctx, slot).Err()
}

// Close releases the underlying redis client only when this backend owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (b *Redis) Close(context.Context) error {
	if b.closeClient {
		if err := b.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
