package domain

import (
	"time"
)

// AddressInfo represents a sender or recipient together with where they are.
type AddressInfo struct {
	Name       string `json:"name" bson:"name"`
	Company    string `json:"company,omitempty" bson:"company,omitempty"`
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
	Phone      string `json:"phone" bson:"phone"`
	Email      string `json:"email,omitempty" bson:"email,omitempty"`
}

// Dimensions represents the physical size of a package.
type Dimensions struct {
	LengthCm float64 `json:"length_cm" bson:"length_cm"`
	WidthCm  float64 `json:"width_cm" bson:"width_cm"`
	HeightCm float64 `json:"height_cm" bson:"height_cm"`
}

// Package contains the details of what is being shipped.
type Package struct {
	WeightKg          float64    `json:"weight_kg" bson:"weight_kg"`
	Dimensions        Dimensions `json:"dimensions" bson:"dimensions"`
	ServiceLevel      string     `json:"service_level" bson:"service_level"`
	SignatureRequired bool       `json:"signature_required" bson:"signature_required"`
	Instructions      string     `json:"delivery_instructions,omitempty" bson:"delivery_instructions,omitempty"`
}

// InsuranceType is the coverage tier bought for a shipment.
type InsuranceType string

const (
	InsuranceBasic   InsuranceType = "basic"
	InsurancePremium InsuranceType = "premium"
	InsuranceCustom  InsuranceType = "custom"
)

// InsuranceInfo describes the coverage attached to a shipment.
type InsuranceInfo struct {
	Amount      float64       `json:"amount" bson:"amount"`
	Currency    string        `json:"currency" bson:"currency"`
	Type        InsuranceType `json:"type" bson:"type"`
	Description string        `json:"description" bson:"description"`
}

// CustomsInfo is only present on international shipments.
type CustomsInfo struct {
	DeclaredValue float64  `json:"declared_value" bson:"declared_value"`
	Currency      string   `json:"currency" bson:"currency"`
	Contents      string   `json:"contents" bson:"contents"`
	Purpose       string   `json:"purpose" bson:"purpose"`
	Documents     []string `json:"documents,omitempty" bson:"documents,omitempty"`
}

// LocationType qualifies where a parcel currently sits.
type LocationType string

const (
	LocationOrigin      LocationType = "origin"
	LocationDestination LocationType = "destination"
	LocationTransit     LocationType = "transit"
	LocationDelivery    LocationType = "delivery"
)

// LocationInfo is the best-effort structured form of an event's free-text location.
type LocationInfo struct {
	Name        string       `json:"name"`
	City        string       `json:"city"`
	Country     string       `json:"country"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Type        LocationType `json:"type"`
}

// ShipmentRecord is the aggregate root. It is mutated only by appending
// timeline events (stored separately) or by replacing notification preferences.
type ShipmentRecord struct {
	TrackingNumber string                   `json:"tracking_number" bson:"_id"`
	Carrier        Carrier                  `json:"carrier" bson:"carrier"`
	Sender         AddressInfo              `json:"sender" bson:"sender"`
	Recipient      AddressInfo              `json:"recipient" bson:"recipient"`
	Package        Package                  `json:"package" bson:"package"`
	Insurance      InsuranceInfo            `json:"insurance" bson:"insurance"`
	Customs        *CustomsInfo             `json:"customs,omitempty" bson:"customs,omitempty"`
	Preferences    []NotificationPreference `json:"notifications" bson:"notifications"`
	CreatedAt      time.Time                `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at" bson:"updated_at"`
	IdempotencyKey string                   `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
}

// ID is the shipment identifier used to key notifications.
func (s *ShipmentRecord) ID() string {
	return s.TrackingNumber
}
