package ports

import (
	"context"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// ShipmentRepository defines persistence operations for shipment records.
type ShipmentRepository interface {
	// Create returns domain.ErrDuplicateShipment when the tracking number is taken.
	Create(ctx context.Context, s *domain.ShipmentRecord) error
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.ShipmentRecord, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.ShipmentRecord, error)
	UpdatePreferences(ctx context.Context, trackingNumber string, prefs []domain.NotificationPreference) error
}
