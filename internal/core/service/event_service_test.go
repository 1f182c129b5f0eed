package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

func seedShipment(t *testing.T, h *harness, trackingNumber string) {
	t.Helper()
	err := h.shipments.Create(context.Background(), &domain.ShipmentRecord{
		TrackingNumber: trackingNumber,
		Recipient:      recipient(),
		Preferences:    domain.DefaultPreferences(),
	})
	if err != nil {
		t.Fatalf("seed shipment: %v", err)
	}
}

func TestEventService_Process_HappyPath(t *testing.T) {
	h := newHarness(t, t0)
	seedShipment(t, h, "BD123456")

	err := h.events().Process(context.Background(), ports.TrackingEventInput{
		TrackingNumber: "bd123456",
		EventID:        "scan-1",
		StatusCode:     "PICKED_UP",
		Timestamp:      t0,
		Location:       "Brazzaville, Congo",
		Source:         "driver_app",
		Coordinates:    &ports.LocationInput{Lat: -4.26, Lng: 15.24},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	stored, _ := h.eventRepo.LoadTimeline(context.Background(), "BD123456")
	if len(stored) != 1 || stored[0].ID != "scan-1" {
		t.Fatalf("expected event stored under normalised number, got: %+v", stored)
	}
	if stored[0].Coordinates == nil || stored[0].Coordinates.Lat != -4.26 {
		t.Errorf("expected coordinates stored, got %+v", stored[0].Coordinates)
	}

	// pending -> in_transit: only the status_changed email subscribes.
	sent := h.sink.Sent()
	if len(sent) != 1 || sent[0].Type != domain.ChannelEmail || sent[0].Category != domain.CategoryInTransit {
		t.Errorf("expected one in_transit email, got %+v", sent)
	}
}

func TestEventService_Process_DuplicateSkipped(t *testing.T) {
	h := newHarness(t, t0)
	svc := h.events()
	in := ports.TrackingEventInput{TrackingNumber: "BD123456", StatusCode: "PICKED_UP", Timestamp: t0, Source: "driver_app"}

	if err := svc.Process(context.Background(), in); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	// Same scan redelivered without an id derives the same id.
	if err := svc.Process(context.Background(), in); err != nil {
		t.Fatalf("expected no error for duplicate, got: %v", err)
	}

	stored, _ := h.eventRepo.LoadTimeline(context.Background(), "BD123456")
	if len(stored) != 1 {
		t.Errorf("expected a single stored event, got %d", len(stored))
	}
}

func TestEventService_Process_StaleRejected(t *testing.T) {
	h := newHarness(t, t0)
	svc := h.events()
	_ = svc.Process(context.Background(), ports.TrackingEventInput{
		TrackingNumber: "BD123456", EventID: "a", StatusCode: "OUT_FOR_DELIVERY", Timestamp: t0,
	})

	err := svc.Process(context.Background(), ports.TrackingEventInput{
		TrackingNumber: "BD123456", EventID: "b", StatusCode: "PICKED_UP", Timestamp: t0.Add(-time.Hour),
	})
	if !errors.Is(err, domain.ErrStaleEvent) {
		t.Errorf("expected ErrStaleEvent, got: %v", err)
	}
}

func TestEventService_Process_LateEventInsideSkewDoesNotNotify(t *testing.T) {
	h := newHarness(t, t0)
	seedShipment(t, h, "BD123456")
	svc := h.events()

	_ = svc.Process(context.Background(), ports.TrackingEventInput{
		TrackingNumber: "BD123456", EventID: "a", StatusCode: "IN_TRANSIT", Timestamp: t0,
	})
	before := len(h.sink.Sent())

	err := svc.Process(context.Background(), ports.TrackingEventInput{
		TrackingNumber: "BD123456", EventID: "b", StatusCode: "DELIVERED", Timestamp: t0.Add(-2 * time.Second),
	})
	if err != nil {
		t.Fatalf("late event inside skew must be accepted, got: %v", err)
	}
	if got := len(h.sink.Sent()); got != before {
		t.Errorf("late event must not change the current status, got %d new notifications", got-before)
	}
}

func TestEventService_Process_InvalidTrackingNumber(t *testing.T) {
	h := newHarness(t, t0)
	err := h.events().Process(context.Background(), ports.TrackingEventInput{
		TrackingNumber: "99M-NOTVALID", StatusCode: "PICKED_UP", Timestamp: t0,
	})
	if !errors.Is(err, domain.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got: %v", err)
	}
}

func TestEventService_Process_MissingTimestamp(t *testing.T) {
	h := newHarness(t, t0)
	err := h.events().Process(context.Background(), ports.TrackingEventInput{
		TrackingNumber: "BD123456", StatusCode: "PICKED_UP",
	})
	if !errors.Is(err, domain.ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent, got: %v", err)
	}
}

func TestEventService_Process_UnregisteredShipmentStoresWithoutNotifying(t *testing.T) {
	h := newHarness(t, t0)
	err := h.events().Process(context.Background(), ports.TrackingEventInput{
		TrackingNumber: "DHL123456789", EventID: "x", StatusCode: "PICKED_UP", Timestamp: t0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.sink.Sent()) != 0 {
		t.Errorf("expected no notifications without a shipment record")
	}
}

func TestEventID_Deterministic(t *testing.T) {
	a := EventID("BD123456", "PICKED_UP", t0)
	b := EventID("BD123456", "PICKED_UP", t0.In(time.FixedZone("WAT", 3600)))
	c := EventID("BD123456", "PICKED_UP", t0.Add(time.Second))
	if a != b {
		t.Errorf("same instant in another zone must derive the same id")
	}
	if a == c {
		t.Errorf("different instants must derive different ids")
	}
}

func TestEventService_Process_LogsTrackingNumberField(t *testing.T) {
	h := newHarness(t, t0)
	var buf bytes.Buffer
	svc := NewEventService(h.registry, h.timelines, h.shipments, h.trigger, h.sink, zerolog.New(&buf))
	in := ports.TrackingEventInput{TrackingNumber: "BD123456", EventID: "scan-1", StatusCode: "PICKED_UP", Timestamp: t0, Source: "driver_app"}

	for i := 0; i < 2; i++ {
		if err := svc.Process(context.Background(), in); err != nil {
			t.Fatalf("process #%d: %v", i+1, err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected processed + duplicate entries, got %d: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		if entry["tracking_number"] != "BD123456" {
			t.Errorf("tracking_number missing in %s", line)
		}
		if _, ok := entry["tracking"]; ok {
			t.Errorf("unexpected tracking field in %s", line)
		}
	}
}
