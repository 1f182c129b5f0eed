package ports

import (
	"context"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// RegisterShipmentInput carries all data needed to register a shipment.
type RegisterShipmentInput struct {
	// TrackingNumber is optional; one is generated for Scope when empty.
	TrackingNumber string
	Scope          domain.Scope
	Sender         domain.AddressInfo
	Recipient      domain.AddressInfo
	Package        domain.Package
	Insurance      domain.InsuranceInfo
	Customs        *domain.CustomsInfo
	Preferences    []domain.NotificationPreference
	IdempotencyKey string
}

// RegisterShipmentResult is returned after registering a shipment.
type RegisterShipmentResult struct {
	Shipment *domain.ShipmentRecord
	// AlreadyExisted is true when the Idempotency-Key matched an existing shipment.
	AlreadyExisted bool
}

// ShipmentService defines use-case operations for shipment records.
type ShipmentService interface {
	Register(ctx context.Context, input RegisterShipmentInput) (*RegisterShipmentResult, error)
	Get(ctx context.Context, trackingNumber string) (*domain.ShipmentRecord, error)
	UpdatePreferences(ctx context.Context, trackingNumber string, prefs []domain.NotificationPreference) error
}
