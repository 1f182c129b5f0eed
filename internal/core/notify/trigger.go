// Package notify decides which notifications a status change produces.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// Trigger is edge-triggered: it fires only when the category changes, and at
// most once per (shipment, category) as recorded by its ledger.
type Trigger struct {
	ledger ports.NotificationLedger
	log    zerolog.Logger
	now    func() time.Time
}

// Option customises a Trigger.
type Option func(*Trigger)

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(t *Trigger) { t.now = now }
}

func NewTrigger(ledger ports.NotificationLedger, log zerolog.Logger, opts ...Option) *Trigger {
	t := &Trigger{ledger: ledger, log: log, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OnTimelineUpdate returns the notifications to send for the transition
// prev -> next, one per enabled preference subscribed to next's category.
// Replaying the same transition returns nothing the second time.
func (t *Trigger) OnTimelineUpdate(
	ctx context.Context,
	shipment *domain.ShipmentRecord,
	prev, next domain.CanonicalStatus,
	prefs []domain.NotificationPreference,
) []domain.Notification {
	if shipment == nil || next.Category == "" || prev.Category == next.Category {
		return nil
	}

	now := t.now().UTC()
	var out []domain.Notification
	for _, p := range prefs {
		if !p.Wants(next.Category) {
			continue
		}
		recipient := recipientFor(p, shipment.Recipient)
		if recipient == "" {
			t.log.Warn().
				Str("tracking_number", shipment.TrackingNumber).
				Str("channel", string(p.Channel)).
				Msg("no recipient address for channel")
			continue
		}
		out = append(out, domain.Notification{
			ID:             uuid.NewString(),
			Type:           p.Channel,
			ShipmentID:     shipment.ID(),
			TrackingNumber: shipment.TrackingNumber,
			Category:       next.Category,
			StatusCode:     next.Code,
			Description:    next.Description,
			Recipient:      recipient,
			CreatedAt:      now,
		})
	}
	// Only a transition that actually reaches someone is recorded, so a
	// later preference fix can still deliver it.
	if len(out) == 0 {
		return nil
	}

	first, err := t.ledger.MarkOnce(ctx, shipment.ID(), next.Category)
	if err != nil {
		t.log.Warn().Err(err).
			Str("tracking_number", shipment.TrackingNumber).
			Str("category", string(next.Category)).
			Msg("notification ledger unavailable, notifying anyway")
	} else if !first {
		t.log.Debug().
			Str("tracking_number", shipment.TrackingNumber).
			Str("category", string(next.Category)).
			Msg("category already notified")
		return nil
	}
	return out
}

func recipientFor(p domain.NotificationPreference, to domain.AddressInfo) string {
	if p.Target != "" {
		return p.Target
	}
	switch p.Channel {
	case domain.ChannelEmail:
		return to.Email
	case domain.ChannelSMS, domain.ChannelPush:
		return to.Phone
	}
	return ""
}
