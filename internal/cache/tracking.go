// Package cache holds the Redis-backed read cache for tracking snapshots.
// Snapshots change at most once per simulation tick, so a short TTL absorbs
// polling traffic without serving stale state for long.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gearshare-backend/internal/domain"
)

const (
	TrackingSnapshotTTL = 10 * time.Second

	trackingKeyPrefix = "cache:tracking:"
)

type TrackingCache struct {
	client *redis.Client
}

func NewTrackingCache(client *redis.Client) *TrackingCache {
	return &TrackingCache{client: client}
}

// GetSnapshot returns the cached snapshot, or nil on a cache miss. Redis
// failures are returned so the caller can decide to fall through to the
// database.
func (c *TrackingCache) GetSnapshot(ctx context.Context, requestID int64) (*domain.TrackingSnapshot, error) {
	key := trackingKey(requestID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var snap domain.TrackingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *TrackingCache) SetSnapshot(ctx context.Context, snap *domain.TrackingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, trackingKey(snap.RequestID), data, TrackingSnapshotTTL).Err()
}

// Invalidate drops the cached snapshot after a state transition so the next
// poll reflects it immediately.
func (c *TrackingCache) Invalidate(ctx context.Context, requestID int64) error {
	return c.client.Del(ctx, trackingKey(requestID)).Err()
}

func trackingKey(requestID int64) string {
	return fmt.Sprintf("%s%d", trackingKeyPrefix, requestID)
}
