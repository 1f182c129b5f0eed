package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/tracking-system/internal/core/carrier"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/notify"
	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/core/status"
	"github.com/99minutos/tracking-system/internal/core/timeline"
	"github.com/99minutos/tracking-system/internal/infrastructure/db/memory"
)

var discardLogger = zerolog.Nop()

// recordingSink keeps every notification it is handed.
type recordingSink struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (s *recordingSink) Send(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSink) Sent() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.sent...)
}

// harness wires the engine over in-memory storage.
type harness struct {
	registry  *carrier.Registry
	timelines *timeline.Store
	eventRepo *memory.TimelineRepository
	shipments *memory.ShipmentRepository
	trigger   *notify.Trigger
	sink      *recordingSink
	unmapped  []string
	now       time.Time
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	registry, err := carrier.NewRegistry(carrier.DefaultRules()...)
	require.NoError(t, err)

	h := &harness{
		registry:  registry,
		eventRepo: memory.NewTimelineRepository(),
		shipments: memory.NewShipmentRepository(),
		sink:      &recordingSink{},
		now:       now,
	}
	normalizer := status.NewNormalizer(status.DefaultTable(), discardLogger,
		status.WithUnmappedHook(func(_ domain.Carrier, code string) { h.unmapped = append(h.unmapped, code) }))
	h.timelines = timeline.NewStore(h.eventRepo, normalizer, discardLogger)
	h.trigger = notify.NewTrigger(notify.NewMemoryLedger(), discardLogger, notify.WithClock(h.clock))
	return h
}

func (h *harness) clock() time.Time { return h.now }

func (h *harness) tracking(gateway ports.CarrierGateway, cfg TrackingConfig) *TrackingService {
	return NewTrackingService(TrackingDeps{
		Registry:   h.registry,
		Gateway:    gateway,
		Timelines:  h.timelines,
		Normalizer: status.NewNormalizer(status.DefaultTable(), discardLogger),
		Shipments:  h.shipments,
		Trigger:    h.trigger,
		Sink:       h.sink,
		Now:        h.clock,
	}, cfg, discardLogger)
}

func (h *harness) events() ports.EventService {
	return NewEventService(h.registry, h.timelines, h.shipments, h.trigger, h.sink, discardLogger)
}

// fastConfig retries without noticeable delay.
func fastConfig() TrackingConfig {
	return TrackingConfig{
		FetchTimeout:         time.Second,
		MaxRetries:           3,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     2 * time.Millisecond,
		BatchConcurrency:     4,
		BatchMaxSize:         10,
	}
}

func recipient() domain.AddressInfo {
	return domain.AddressInfo{
		Name:    "Marie Ngoma",
		Address: "12 Avenue de la Paix",
		City:    "Pointe-Noire",
		Country: "Congo",
		Phone:   "+242060000000",
		Email:   "marie@example.com",
	}
}

func ev(id, code string, ts time.Time, location string) domain.TrackingEvent {
	return domain.TrackingEvent{ID: id, StatusCode: code, Timestamp: ts, Location: location}
}
