package ports

import (
	"context"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// CarrierAdapter fetches the timeline of one carrier's shipments.
// Failures must wrap domain.ErrNotFound, domain.ErrNetwork or
// domain.ErrCarrierUnavailable so the orchestrator can classify them.
type CarrierAdapter interface {
	FetchTimeline(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error)
}

// CarrierGateway routes a fetch to the adapter responsible for carrier.
type CarrierGateway interface {
	FetchTimeline(ctx context.Context, carrier domain.Carrier, trackingNumber string) ([]domain.TrackingEvent, error)
}
