package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/carrier"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/notify"
	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/core/timeline"
	"github.com/99minutos/tracking-system/internal/pkg/metrics"
)

// eventNamespace seeds the ids derived for events pushed without one.
var eventNamespace = uuid.MustParse("6f1d9a52-3c8e-4b57-9d0f-2a4b1c7e8f31")

type eventService struct {
	registry  *carrier.Registry
	timelines *timeline.Store
	shipments ports.ShipmentRepository
	trigger   *notify.Trigger
	sink      ports.NotificationSink
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation. sink may be nil.
func NewEventService(
	registry *carrier.Registry,
	timelines *timeline.Store,
	shipments ports.ShipmentRepository,
	trigger *notify.Trigger,
	sink ports.NotificationSink,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		registry:  registry,
		timelines: timelines,
		shipments: shipments,
		trigger:   trigger,
		sink:      sink,
		log:       log,
	}
}

// EventID derives a stable id for an event the carrier pushed without one,
// so that redelivery of the same scan is recognised as a duplicate.
func EventID(trackingNumber, statusCode string, ts time.Time) string {
	name := trackingNumber + "|" + statusCode + "|" + ts.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(eventNamespace, []byte(name)).String()
}

// Process validates, deduplicates, and appends a single tracking event.
// Duplicates are skipped silently; stale and malformed events are returned
// as *domain.RejectedEvent.
func (s *eventService) Process(ctx context.Context, in ports.TrackingEventInput) error {
	trackingNumber := carrier.Normalize(in.TrackingNumber)

	// 1. The number must belong to a known carrier.
	c := s.registry.Detect(trackingNumber)
	if !c.Known() {
		return domain.NewTrackingError(domain.KindInvalidFormat, trackingNumber, domain.ErrInvalidFormat)
	}

	// 2. Build the event.
	ev := domain.TrackingEvent{
		ID:          in.EventID,
		StatusCode:  in.StatusCode,
		Description: in.Description,
		Timestamp:   in.Timestamp.UTC(),
		Location:    in.Location,
		Source:      in.Source,
	}
	if ev.ID == "" && !in.Timestamp.IsZero() {
		ev.ID = EventID(trackingNumber, in.StatusCode, in.Timestamp)
	}
	if in.Coordinates != nil {
		ev.Coordinates = &domain.Coordinates{Lat: in.Coordinates.Lat, Lng: in.Coordinates.Lng}
	}

	// 3. Append under the per-shipment lock.
	cur, err := s.timelines.Append(ctx, trackingNumber, ev)
	var rejected *domain.RejectedEvent
	switch {
	case errors.As(err, &rejected):
		metrics.EventsRejectedTotal.WithLabelValues(string(rejected.Reason)).Inc()
		if rejected.Reason == domain.RejectDuplicate {
			s.log.Debug().Str("tracking_number", trackingNumber).Str("event_id", ev.ID).Msg("duplicate event skipped")
			return nil
		}
		return fmt.Errorf("process event: %w", err)
	case err != nil:
		return fmt.Errorf("process event: %w", err)
	}
	metrics.EventsAppendedTotal.WithLabelValues(sourceLabel(in.Source)).Inc()

	s.log.Info().
		Str("tracking_number", trackingNumber).
		Str("status", in.StatusCode).
		Str("source", in.Source).
		Msg("event processed")

	// 4. Notify on a category change. Late events sorted into the middle of
	// the timeline leave the current status untouched.
	last, _ := cur.Last()
	if last.ID != ev.ID {
		return nil
	}
	record, err := s.shipments.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if !errors.Is(err, domain.ErrShipmentNotFound) {
			s.log.Warn().Err(err).Str("tracking_number", trackingNumber).Msg("failed to load shipment for notifications")
		}
		return nil
	}

	prev := withoutEvent(cur, ev.ID)
	previous, _ := s.timelines.CurrentStatus(c, prev)
	current, _ := s.timelines.CurrentStatus(c, cur)
	notifications := s.trigger.OnTimelineUpdate(ctx, record, previous, current, record.Preferences)
	publish(ctx, s.sink, notifications, s.log)
	return nil
}

func withoutEvent(tl domain.Timeline, id string) domain.Timeline {
	events := make([]domain.TrackingEvent, 0, tl.Len())
	for _, ev := range tl.Events {
		if ev.ID != id {
			events = append(events, ev)
		}
	}
	return domain.Timeline{TrackingNumber: tl.TrackingNumber, Events: events}
}

func sourceLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}
