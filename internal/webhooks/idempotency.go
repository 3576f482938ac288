package webhooks

import (
	"context"
	"time"

	"github.com/sortezap/sortezap-backend/pkg/redis"
)

const dedupeScope = "lirapay-webhook"

// Guard marks webhook deliveries as seen so redeliveries are acknowledged
// without reprocessing. A nil guard (redis unconfigured) treats every
// delivery as the first one.
type Guard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

// NewGuard wraps the store. The ttl bounds how long a delivery id is
// remembered.
func NewGuard(store redis.IdempotencyStore, ttl time.Duration) *Guard {
	return &Guard{store: store, ttl: ttl}
}

// FirstDelivery reports whether this event id has not been seen before,
// claiming it atomically. Store failures fail open.
func (g *Guard) FirstDelivery(ctx context.Context, eventID string) bool {
	if g == nil || g.store == nil || eventID == "" {
		return true
	}
	key := g.store.IdempotencyKey(dedupeScope, eventID)
	claimed, err := g.store.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl)
	if err != nil {
		return true
	}
	return claimed
}
