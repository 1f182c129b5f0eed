package notify

import (
	"context"
	"sync"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// MemoryLedger is an in-process NotificationLedger. It does not survive a
// restart; production wiring uses the Redis ledger.
type MemoryLedger struct {
	mu   sync.Mutex
	sent map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{sent: make(map[string]struct{})}
}

func (l *MemoryLedger) MarkOnce(_ context.Context, shipmentID string, category domain.Category) (bool, error) {
	key := shipmentID + ":" + string(category)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.sent[key]; ok {
		return false, nil
	}
	l.sent[key] = struct{}{}
	return true, nil
}
