package webhooks

import (
	"context"
	"time"
)

// The provider retries deliveries for up to a day; markers outlive that.
const guardTTL = 25 * time.Hour

type guardStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	WebhookEventKey(eventID string) string
}

// RedisGuard deduplicates provider event deliveries with a SETNX marker.
type RedisGuard struct {
	store guardStore
}

// NewRedisGuard builds the idempotency guard.
func NewRedisGuard(store guardStore) *RedisGuard {
	return &RedisGuard{store: store}
}

// CheckAndMark reports whether the event was already processed, marking it as
// processed when it was not.
func (g *RedisGuard) CheckAndMark(ctx context.Context, eventKey string) (bool, error) {
	stored, err := g.store.SetNX(ctx, g.store.WebhookEventKey(eventKey), "1", guardTTL)
	if err != nil {
		return false, err
	}
	return !stored, nil
}

// Delete clears the marker so a failed event can be redelivered.
func (g *RedisGuard) Delete(ctx context.Context, eventKey string) error {
	return g.store.Del(ctx, g.store.WebhookEventKey(eventKey))
}
