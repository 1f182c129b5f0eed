package ports

import (
	"context"
	"time"
)

// LocationInput carries optional geographic coordinates for a tracking event.
type LocationInput struct {
	Lat float64
	Lng float64
}

// TrackingEventInput is a carrier scan pushed to us through the webhook.
type TrackingEventInput struct {
	TrackingNumber string
	// EventID is the carrier's own id; derived when empty.
	EventID     string
	StatusCode  string
	Description string
	Timestamp   time.Time
	Location    string
	Source      string
	Coordinates *LocationInput // optional
}

// EventService processes incoming tracking events.
type EventService interface {
	Process(ctx context.Context, event TrackingEventInput) error
}
