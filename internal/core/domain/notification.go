package domain

import "time"

// Channel is the medium a notification is delivered through.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelSMS     Channel = "sms"
	ChannelPush    Channel = "push"
	ChannelWebhook Channel = "webhook"
)

// EventStatusChanged subscribes a preference to every category transition.
const EventStatusChanged = "status_changed"

// NotificationPreference is one channel a recipient opted into, and the
// categories (or EventStatusChanged) that should reach them on it.
type NotificationPreference struct {
	Channel Channel  `json:"type" bson:"type"`
	Enabled bool     `json:"enabled" bson:"enabled"`
	Events  []string `json:"events" bson:"events"`
	// Target overrides the recipient address (webhook URL, device token).
	Target string `json:"target,omitempty" bson:"target,omitempty"`
}

// Wants reports whether this preference is enabled for category c.
func (p NotificationPreference) Wants(c Category) bool {
	if !p.Enabled {
		return false
	}
	for _, e := range p.Events {
		if e == EventStatusChanged || Category(e) == c {
			return true
		}
	}
	return false
}

// DefaultPreferences mirrors what a new recipient gets when none are supplied.
func DefaultPreferences() []NotificationPreference {
	return []NotificationPreference{
		{Channel: ChannelEmail, Enabled: true, Events: []string{EventStatusChanged}},
		{Channel: ChannelSMS, Enabled: true, Events: []string{string(CategoryOutForDelivery), string(CategoryDelivered)}},
	}
}

// Notification is a message the engine decided must be sent.
type Notification struct {
	ID             string    `json:"id"`
	Type           Channel   `json:"type"`
	ShipmentID     string    `json:"shipment_id"`
	TrackingNumber string    `json:"tracking_number"`
	Category       Category  `json:"category"`
	StatusCode     string    `json:"status_code"`
	Description    string    `json:"description"`
	Recipient      string    `json:"recipient"`
	CreatedAt      time.Time `json:"created_at"`
}
