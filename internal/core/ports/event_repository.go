package ports

import (
	"context"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// TimelineRepository persists the events that make up shipment timelines.
type TimelineRepository interface {
	// LoadTimeline returns every stored event for the tracking number, in any
	// order. An unknown number yields an empty slice, not an error.
	LoadTimeline(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error)

	// AppendEvent stores one event. It returns domain.ErrDuplicateEvent when an
	// event with the same id is already stored for the tracking number.
	AppendEvent(ctx context.Context, trackingNumber string, event domain.TrackingEvent) error
}
