package memory

import (
	"context"
	"sync"
	"time"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// ShipmentRepository stores copies of shipment records keyed by tracking number.
type ShipmentRepository struct {
	mu            sync.RWMutex
	byTracking    map[string]domain.ShipmentRecord
	byIdempotency map[string]string
}

var _ ports.ShipmentRepository = (*ShipmentRepository)(nil)

func NewShipmentRepository() *ShipmentRepository {
	return &ShipmentRepository{
		byTracking:    make(map[string]domain.ShipmentRecord),
		byIdempotency: make(map[string]string),
	}
}

func (r *ShipmentRepository) Create(_ context.Context, s *domain.ShipmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byTracking[s.TrackingNumber]; taken {
		return domain.ErrDuplicateShipment
	}
	r.byTracking[s.TrackingNumber] = clone(s)
	if s.IdempotencyKey != "" {
		r.byIdempotency[s.IdempotencyKey] = s.TrackingNumber
	}
	return nil
}

func (r *ShipmentRepository) FindByTrackingNumber(_ context.Context, trackingNumber string) (*domain.ShipmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byTracking[trackingNumber]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	out := clone(&s)
	return &out, nil
}

func (r *ShipmentRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.ShipmentRecord, error) {
	r.mu.RLock()
	tn, ok := r.byIdempotency[key]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	return r.FindByTrackingNumber(ctx, tn)
}

func (r *ShipmentRepository) UpdatePreferences(_ context.Context, trackingNumber string, prefs []domain.NotificationPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byTracking[trackingNumber]
	if !ok {
		return domain.ErrShipmentNotFound
	}
	s.Preferences = append([]domain.NotificationPreference(nil), prefs...)
	s.UpdatedAt = time.Now().UTC()
	r.byTracking[trackingNumber] = s
	return nil
}

func clone(s *domain.ShipmentRecord) domain.ShipmentRecord {
	out := *s
	out.Preferences = append([]domain.NotificationPreference(nil), s.Preferences...)
	if s.Customs != nil {
		c := *s.Customs
		out.Customs = &c
	}
	return out
}
