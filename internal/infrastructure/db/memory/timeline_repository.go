// Package memory holds process-local repositories used when no database is
// configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// TimelineRepository keeps events per tracking number in insertion order.
type TimelineRepository struct {
	mu     sync.RWMutex
	events map[string][]domain.TrackingEvent
}

var _ ports.TimelineRepository = (*TimelineRepository)(nil)

func NewTimelineRepository() *TimelineRepository {
	return &TimelineRepository{events: make(map[string][]domain.TrackingEvent)}
}

func (r *TimelineRepository) LoadTimeline(_ context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.events[trackingNumber]
	out := make([]domain.TrackingEvent, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *TimelineRepository) AppendEvent(_ context.Context, trackingNumber string, ev domain.TrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.events[trackingNumber] {
		if existing.ID == ev.ID {
			return domain.ErrDuplicateEvent
		}
	}
	r.events[trackingNumber] = append(r.events[trackingNumber], ev)
	return nil
}
