package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// DefaultLedgerTTL keeps a notified category long enough to outlive any
// shipment.
const DefaultLedgerTTL = 30 * 24 * time.Hour

// Ledger records notified (shipment, category) pairs in Redis.
// Key format: notified:<shipment_id>:<category>
type Ledger struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.NotificationLedger = (*Ledger)(nil)

// NewLedger wraps client. A non-positive ttl uses DefaultLedgerTTL.
func NewLedger(client *redis.Client, ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = DefaultLedgerTTL
	}
	return &Ledger{client: client, ttl: ttl}
}

// MarkOnce sets the key only if absent, so concurrent callers agree on a
// single winner.
func (l *Ledger) MarkOnce(ctx context.Context, shipmentID string, category domain.Category) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(shipmentID, category), time.Now().UTC().Unix(), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("notification ledger: %w", err)
	}
	return ok, nil
}

func (l *Ledger) key(shipmentID string, category domain.Category) string {
	return fmt.Sprintf("notified:%s:%s", shipmentID, category)
}
