package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

const keyPrefix = "storefront:"

// SnapshotRepository implements repository.SnapshotRepository using Redis.
// Every write refreshes the slot's TTL.
type SnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotRepository creates a Redis-backed snapshot repository.
func NewSnapshotRepository(client *redis.Client, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{client: client, ttl: ttl}
}

func key(sessionID, slot string) string {
	return keyPrefix + sessionID + ":" + slot
}

// Load returns the blob stored under the session's slot.
func (r *SnapshotRepository) Load(ctx context.Context, sessionID, slot string) ([]byte, error) {
	data, err := r.client.Get(ctx, key(sessionID, slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound(slot, sessionID)
		}
		return nil, fmt.Errorf("redis get %s: %w", slot, err)
	}
	return data, nil
}

// Save overwrites the slot.
func (r *SnapshotRepository) Save(ctx context.Context, sessionID, slot string, data []byte) error {
	if err := r.client.Set(ctx, key(sessionID, slot), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", slot, err)
	}
	return nil
}

// Delete removes the given slots.
func (r *SnapshotRepository) Delete(ctx context.Context, sessionID string, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	keys := make([]string, len(slots))
	for i, s := range slots {
		keys[i] = key(sessionID, s)
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}

// Ping checks connectivity for the readiness probe.
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
