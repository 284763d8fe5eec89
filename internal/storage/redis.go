package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ovenlight/storefront/internal/domain"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		key:    Key,
	}
}

type RedisStore struct {
	client *redis.Client
	key    string
}

func (r *RedisStore) Save(ctx context.Context, lines []domain.CartLine) error {
	data, err := encodeSnapshot(lines, time.Now())
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}

	// The TTL mirrors the staleness rule; Load still checks the
	// embedded timestamp so a backend without expiry behaves the same.
	if err := r.client.Set(ctx, r.key, data, SnapshotTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// An unreadable snapshot behaves as an absent one.
		log.Printf("discarding unreadable cart snapshot: %v", err)
		return nil, nil
	}

	lines, expired := snap.restore(time.Now())
	if expired {
		if err := r.Clear(ctx); err != nil {
			log.Printf("failed to clear expired cart snapshot: %v", err)
		}
		return nil, nil
	}
	return lines, nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
