package ports

import (
	"context"
	"time"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// StatusView is the current status as shown to the user.
type StatusView struct {
	Code        string
	Description string
	Category    domain.Category
	Timestamp   time.Time
	Location    string
}

// TimelineEntry is one line of the rendered history.
type TimelineEntry struct {
	Status      string
	Description string
	Timestamp   time.Time
	Location    string
	Coordinates *domain.Coordinates
}

// AdvancedTrackingInfo is the fully assembled answer to a tracking request.
type AdvancedTrackingInfo struct {
	TrackingNumber    string
	Status            StatusView
	Type              domain.Scope
	Carrier           string
	CarrierID         domain.CarrierID
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
	Timeline          []TimelineEntry
	CurrentLocation   *domain.LocationInfo
	Sender            domain.AddressInfo
	Recipient         domain.AddressInfo
	Package           domain.Package
	Insurance         domain.InsuranceInfo
	Customs           *domain.CustomsInfo
	// Notifications lists what this request decided to send.
	Notifications []domain.Notification
	// Degraded is set when the carrier was down and stored data was served.
	Degraded bool
}

// BatchResult holds the outcome for one tracking number of a batch.
// Exactly one of Info and Err is set.
type BatchResult struct {
	Info *AdvancedTrackingInfo
	Err  error
}

// TrackingService resolves tracking numbers into tracking information.
type TrackingService interface {
	// Track returns either the assembled info or a *domain.TrackingError.
	Track(ctx context.Context, trackingNumber string) (*AdvancedTrackingInfo, error)
	// TrackBatch tracks every number independently; results are keyed by the
	// normalised tracking number.
	TrackBatch(ctx context.Context, trackingNumbers []string) (map[string]BatchResult, error)
}
