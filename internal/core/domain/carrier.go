package domain

// CarrierID identifies a carrier in the closed set the engine knows about.
type CarrierID string

const (
	CarrierNational CarrierID = "national"
	CarrierDHL      CarrierID = "dhl"
	CarrierUPS      CarrierID = "ups"
	CarrierFedEx    CarrierID = "fedex"
	CarrierUnknown  CarrierID = "unknown"
)

// Scope tells whether a carrier moves parcels inside the country or across borders.
type Scope string

const (
	ScopeNational      Scope = "national"
	ScopeInternational Scope = "international"
)

// Valid reports whether s is one of the known scopes.
func (s Scope) Valid() bool {
	return s == ScopeNational || s == ScopeInternational
}

// Carrier is the identity resolved from a tracking number's lexical format.
type Carrier struct {
	ID    CarrierID `json:"id" bson:"id"`
	Name  string    `json:"name" bson:"name"`
	Scope Scope     `json:"scope" bson:"scope"`
}

// UnknownCarrier is returned when no format rule matches.
var UnknownCarrier = Carrier{ID: CarrierUnknown, Name: "Unknown"}

// Known reports whether the carrier was resolved.
func (c Carrier) Known() bool {
	return c.ID != "" && c.ID != CarrierUnknown
}

// International reports whether shipments of this carrier cross borders.
func (c Carrier) International() bool {
	return c.Scope == ScopeInternational
}
