package handler

import (
	"time"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// --- Tracking ---

type statusResponse struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
	Location    string    `json:"location,omitempty"`
}

type timelineEntryResponse struct {
	Status      string              `json:"status"`
	Description string              `json:"description"`
	Timestamp   time.Time           `json:"timestamp"`
	Location    string              `json:"location,omitempty"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
}

type trackingResponse struct {
	TrackingNumber    string                  `json:"tracking_number"`
	Status            statusResponse          `json:"status"`
	Type              string                  `json:"type"`
	Carrier           string                  `json:"carrier"`
	CarrierID         string                  `json:"carrier_id"`
	EstimatedDelivery *time.Time              `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time              `json:"actual_delivery,omitempty"`
	Timeline          []timelineEntryResponse `json:"timeline"`
	CurrentLocation   *domain.LocationInfo    `json:"current_location,omitempty"`
	Sender            *domain.AddressInfo     `json:"sender,omitempty"`
	Recipient         *domain.AddressInfo     `json:"recipient,omitempty"`
	Package           *domain.Package         `json:"package,omitempty"`
	Insurance         *domain.InsuranceInfo   `json:"insurance,omitempty"`
	Customs           *domain.CustomsInfo     `json:"customs,omitempty"`
	Notifications     []domain.Notification   `json:"notifications"`
	Degraded          bool                    `json:"degraded"`
	Links             trackingLinks           `json:"_links"`
}

type trackingLinks struct {
	Self   string `json:"self"`
	Report string `json:"report"`
}

type batchTrackingRequest struct {
	TrackingNumbers []string `json:"tracking_numbers" validate:"required,min=1,dive,required"`
}

type batchEntryResponse struct {
	TrackingNumber string            `json:"tracking_number"`
	Result         *trackingResponse `json:"result,omitempty"`
	Error          *errorResponse    `json:"error,omitempty"`
}

type batchTrackingResponse struct {
	Results   []batchEntryResponse `json:"results"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
}

// --- Events ---

type coordinatesRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type trackingEventRequest struct {
	TrackingNumber string              `json:"tracking_number" validate:"required,trackingnumber"`
	EventID        string              `json:"event_id"`
	Status         string              `json:"status"          validate:"required"`
	Description    string              `json:"description"`
	Timestamp      time.Time           `json:"timestamp"       validate:"required"`
	Location       string              `json:"location"`
	Source         string              `json:"source"          validate:"required"`
	Coordinates    *coordinatesRequest `json:"coordinates"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// --- Shipments ---

type addressRequest struct {
	Name       string `json:"name"        validate:"required"`
	Company    string `json:"company"`
	Address    string `json:"address"     validate:"required"`
	City       string `json:"city"        validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"     validate:"required"`
	Phone      string `json:"phone"       validate:"required"`
	Email      string `json:"email"       validate:"omitempty,email"`
}

type dimensionsRequest struct {
	LengthCm float64 `json:"length_cm" validate:"required,gt=0"`
	WidthCm  float64 `json:"width_cm"  validate:"required,gt=0"`
	HeightCm float64 `json:"height_cm" validate:"required,gt=0"`
}

type packageRequest struct {
	WeightKg          float64           `json:"weight_kg"             validate:"required,gt=0"`
	Dimensions        dimensionsRequest `json:"dimensions"`
	ServiceLevel      string            `json:"service_level"         validate:"required,oneof=standard express economy"`
	SignatureRequired bool              `json:"signature_required"`
	Instructions      string            `json:"delivery_instructions"`
}

type insuranceRequest struct {
	Amount      float64 `json:"amount"   validate:"gte=0"`
	Currency    string  `json:"currency"`
	Type        string  `json:"type"     validate:"omitempty,oneof=basic premium custom"`
	Description string  `json:"description"`
}

type customsRequest struct {
	DeclaredValue float64  `json:"declared_value" validate:"gt=0"`
	Currency      string   `json:"currency"       validate:"required"`
	Contents      string   `json:"contents"       validate:"required"`
	Purpose       string   `json:"purpose"        validate:"required"`
	Documents     []string `json:"documents"`
}

type preferenceRequest struct {
	Type    string   `json:"type"    validate:"required,oneof=email sms push webhook"`
	Enabled bool     `json:"enabled"`
	Events  []string `json:"events"  validate:"required,min=1,dive,notifyevent"`
	Target  string   `json:"target"  validate:"omitempty,url"`
}

type registerShipmentRequest struct {
	TrackingNumber string              `json:"tracking_number" validate:"omitempty,trackingnumber"`
	Type           string              `json:"type"          validate:"omitempty,oneof=national international"`
	Sender         addressRequest      `json:"sender"`
	Recipient      addressRequest      `json:"recipient"`
	Package        packageRequest      `json:"package"`
	Insurance      insuranceRequest    `json:"insurance"`
	Customs        *customsRequest     `json:"customs"`
	Notifications  []preferenceRequest `json:"notifications" validate:"dive"`
}

type updatePreferencesRequest struct {
	Notifications []preferenceRequest `json:"notifications" validate:"dive"`
}

type shipmentLinks struct {
	Self     string `json:"self"`
	Tracking string `json:"tracking"`
}

type shipmentResponse struct {
	*domain.ShipmentRecord
	Links shipmentLinks `json:"_links"`
}
