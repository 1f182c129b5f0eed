package carriers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/infrastructure/carriers/carrierstest"
	"github.com/99minutos/tracking-system/internal/infrastructure/db/memory"
)

var (
	national = domain.Carrier{ID: domain.CarrierNational, Name: "BantuDelice", Scope: domain.ScopeNational}
	dhl      = domain.Carrier{ID: domain.CarrierDHL, Name: "DHL Express", Scope: domain.ScopeInternational}
)

func TestRouter_DispatchesByCarrier(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	router := NewRouter(nil).
		Handle(domain.CarrierNational, &carrierstest.Synthetic{Now: func() time.Time { return fixed }}).
		Handle(domain.CarrierDHL, &carrierstest.Synthetic{International: true, Now: func() time.Time { return fixed }})

	events, err := router.FetchTimeline(ctx, national, "BD123456")
	require.NoError(t, err)
	assert.Len(t, events, 5)
	assert.Equal(t, "OUT_FOR_DELIVERY", events[len(events)-1].StatusCode)

	events, err = router.FetchTimeline(ctx, dhl, "DHL123456789")
	require.NoError(t, err)
	assert.Len(t, events, 8)

	_, err = router.FetchTimeline(ctx, domain.Carrier{ID: domain.CarrierUPS}, "1Z999AA1234567890")
	assert.ErrorIs(t, err, domain.ErrCarrierUnavailable)
}

func TestRouter_Fallback(t *testing.T) {
	router := NewRouter(carrierstest.Events(domain.TrackingEvent{ID: "x"}))
	events, err := router.FetchTimeline(context.Background(), dhl, "DHL123456789")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestStoreAdapter(t *testing.T) {
	ctx := context.Background()
	timelines := memory.NewTimelineRepository()
	shipments := memory.NewShipmentRepository()
	adapter := NewStoreAdapter(timelines, shipments)

	_, err := adapter.FetchTimeline(ctx, "BD123456")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, shipments.Create(ctx, &domain.ShipmentRecord{TrackingNumber: "BD123456"}))
	events, err := adapter.FetchTimeline(ctx, "BD123456")
	require.NoError(t, err)
	assert.Empty(t, events)

	require.NoError(t, timelines.AppendEvent(ctx, "BD654321", domain.TrackingEvent{ID: "e1", Timestamp: time.Now()}))
	events, err = adapter.FetchTimeline(ctx, "BD654321")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestLimited_WaitCancelled(t *testing.T) {
	calls := 0
	next := carrierstest.Func(func(context.Context, string) ([]domain.TrackingEvent, error) {
		calls++
		return nil, nil
	})
	limited := NewLimited(next, 0.001, 1)

	_, err := limited.FetchTimeline(context.Background(), "BD123456")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.FetchTimeline(ctx, "BD123456")
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, 1, calls)
}

func TestScripted(t *testing.T) {
	boom := errors.New("boom")
	s := carrierstest.NewScripted(carrierstest.Events(), boom, nil, boom)

	_, err := s.FetchTimeline(context.Background(), "BD1")
	assert.ErrorIs(t, err, boom)
	_, err = s.FetchTimeline(context.Background(), "BD1")
	assert.NoError(t, err)
	_, err = s.FetchTimeline(context.Background(), "BD1")
	assert.ErrorIs(t, err, boom)
	_, err = s.FetchTimeline(context.Background(), "BD1")
	assert.NoError(t, err)
	assert.Equal(t, 4, s.Calls())
}
