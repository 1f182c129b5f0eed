package ports

import (
	"context"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// NotificationSink delivers notifications decided by the engine.
type NotificationSink interface {
	Send(ctx context.Context, n domain.Notification) error
}

// NotificationLedger remembers which (shipment, category) pairs were already
// notified. MarkOnce returns true only for the first call with a given pair.
type NotificationLedger interface {
	MarkOnce(ctx context.Context, shipmentID string, category domain.Category) (bool, error)
}
