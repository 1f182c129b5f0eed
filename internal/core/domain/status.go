package domain

// Category is the carrier-independent bucket a status falls into.
type Category string

const (
	CategoryPending        Category = "pending"
	CategoryInTransit      Category = "in_transit"
	CategoryOutForDelivery Category = "out_for_delivery"
	CategoryDelivered      Category = "delivered"
	CategoryException      Category = "exception"
	CategoryReturned       Category = "returned"
)

// Categories lists every canonical category in lifecycle order.
var Categories = []Category{
	CategoryPending,
	CategoryInTransit,
	CategoryOutForDelivery,
	CategoryDelivered,
	CategoryException,
	CategoryReturned,
}

// Valid reports whether c belongs to the canonical taxonomy.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CanonicalStatus is a carrier status mapped onto the shared taxonomy.
type CanonicalStatus struct {
	Code        string   `json:"code" bson:"code"`
	Description string   `json:"description" bson:"description"`
	Category    Category `json:"category" bson:"category"`
}

// IsZero reports whether no status has been observed yet.
func (s CanonicalStatus) IsZero() bool {
	return s.Code == "" && s.Category == ""
}
