package carriers

import (
	"context"
	"errors"
	"fmt"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// StoreAdapter serves timelines that carriers pushed through the webhook.
// A number with neither events nor a registered shipment is NOT_FOUND.
type StoreAdapter struct {
	timelines ports.TimelineRepository
	shipments ports.ShipmentRepository
}

var _ ports.CarrierAdapter = (*StoreAdapter)(nil)

func NewStoreAdapter(timelines ports.TimelineRepository, shipments ports.ShipmentRepository) *StoreAdapter {
	return &StoreAdapter{timelines: timelines, shipments: shipments}
}

func (a *StoreAdapter) FetchTimeline(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	events, err := a.timelines.LoadTimeline(ctx, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCarrierUnavailable, err)
	}
	if len(events) > 0 {
		return events, nil
	}

	_, err = a.shipments.FindByTrackingNumber(ctx, trackingNumber)
	switch {
	case errors.Is(err, domain.ErrShipmentNotFound):
		return nil, domain.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("%w: %v", domain.ErrCarrierUnavailable, err)
	}
	return nil, nil
}
