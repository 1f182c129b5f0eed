// Package timeline maintains the ordered event history of each shipment.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/core/status"
)

// DefaultClockSkew is how far behind the latest stored event a new event may
// be and still be accepted (it is then sorted into place).
const DefaultClockSkew = 5 * time.Second

// DefaultCountry fills LocationInfo.Country when a location has no comma.
const DefaultCountry = "Congo"

// Store appends events to timelines. Writes for one tracking number are
// serialised; reads take no lock.
type Store struct {
	repo       ports.TimelineRepository
	normalizer *status.Normalizer
	locator    Locator
	locks      *shardedLocks
	skew       time.Duration
	log        zerolog.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithClockSkew sets the tolerance for late events.
func WithClockSkew(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.skew = d
		}
	}
}

// WithLocator replaces the comma heuristic.
func WithLocator(l Locator) Option {
	return func(s *Store) { s.locator = l }
}

// WithLockShards sets how many mutexes guard writers.
func WithLockShards(n int) Option {
	return func(s *Store) { s.locks = newShardedLocks(n) }
}

func NewStore(repo ports.TimelineRepository, normalizer *status.Normalizer, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		repo:       repo,
		normalizer: normalizer,
		locator:    CommaLocator{DefaultCountry: DefaultCountry},
		locks:      newShardedLocks(defaultLockShards),
		skew:       DefaultClockSkew,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored timeline, sorted.
func (s *Store) Load(ctx context.Context, trackingNumber string) (domain.Timeline, error) {
	events, err := s.repo.LoadTimeline(ctx, trackingNumber)
	if err != nil {
		return domain.Timeline{}, fmt.Errorf("load timeline: %w", err)
	}
	return domain.NewTimeline(trackingNumber, events), nil
}

// Append records one event and returns the resulting timeline.
//
// A duplicate id, an event older than the last stored one by more than the
// clock skew, or an event without id or timestamp is not stored: the
// unchanged timeline is returned together with a *domain.RejectedEvent.
// Late events inside the tolerance are inserted at their sorted position.
func (s *Store) Append(ctx context.Context, trackingNumber string, ev domain.TrackingEvent) (domain.Timeline, error) {
	unlock := s.locks.lock(trackingNumber)
	defer unlock()

	tl, err := s.Load(ctx, trackingNumber)
	if err != nil {
		return domain.Timeline{}, err
	}
	return s.appendLocked(ctx, tl, ev)
}

// Merge folds a batch of events (typically a carrier's full history) into
// the stored timeline under one lock. Rejected events are skipped. It
// returns the timeline before and after the merge.
func (s *Store) Merge(ctx context.Context, trackingNumber string, events []domain.TrackingEvent) (prev, cur domain.Timeline, err error) {
	unlock := s.locks.lock(trackingNumber)
	defer unlock()

	prev, err = s.Load(ctx, trackingNumber)
	if err != nil {
		return domain.Timeline{}, domain.Timeline{}, err
	}

	incoming := make([]domain.TrackingEvent, len(events))
	copy(incoming, events)
	sort.SliceStable(incoming, func(i, j int) bool {
		return incoming[i].Timestamp.Before(incoming[j].Timestamp)
	})

	cur = prev
	for _, ev := range incoming {
		next, err := s.appendLocked(ctx, cur, ev)
		var rejected *domain.RejectedEvent
		switch {
		case errors.As(err, &rejected):
			if rejected.Reason != domain.RejectDuplicate {
				s.log.Warn().
					Str("tracking_number", trackingNumber).
					Str("event_id", ev.ID).
					Str("reason", string(rejected.Reason)).
					Msg("carrier event skipped")
			}
			continue
		case err != nil:
			return prev, cur, err
		}
		cur = next
	}
	return prev, cur, nil
}

func (s *Store) appendLocked(ctx context.Context, tl domain.Timeline, ev domain.TrackingEvent) (domain.Timeline, error) {
	if ev.ID == "" || ev.Timestamp.IsZero() {
		return tl, &domain.RejectedEvent{Event: ev, Reason: domain.RejectInvalid}
	}
	if tl.Contains(ev.ID) {
		return tl, &domain.RejectedEvent{Event: ev, Reason: domain.RejectDuplicate}
	}
	if last, ok := tl.Last(); ok && ev.Timestamp.Before(last.Timestamp.Add(-s.skew)) {
		return tl, &domain.RejectedEvent{Event: ev, Reason: domain.RejectStale}
	}

	if err := s.repo.AppendEvent(ctx, tl.TrackingNumber, ev); err != nil {
		// Another writer (another process) stored it first.
		if errors.Is(err, domain.ErrDuplicateEvent) {
			return tl, &domain.RejectedEvent{Event: ev, Reason: domain.RejectDuplicate}
		}
		return tl, fmt.Errorf("append event: %w", err)
	}
	return tl.Insert(ev), nil
}

// CurrentStatus is the normalised status of the last event.
func (s *Store) CurrentStatus(carrier domain.Carrier, tl domain.Timeline) (domain.CanonicalStatus, bool) {
	last, ok := tl.Last()
	if !ok {
		return domain.CanonicalStatus{}, false
	}
	return s.normalizer.Normalize(carrier, last.StatusCode), true
}

// CurrentLocation derives where the parcel is from the last event's location.
// current is the status returned by CurrentStatus for the same timeline.
func (s *Store) CurrentLocation(tl domain.Timeline, current domain.CanonicalStatus) (*domain.LocationInfo, bool) {
	last, ok := tl.Last()
	if !ok || last.Location == "" {
		return nil, false
	}
	loc := s.locator.Locate(last.Location)
	loc.Coordinates = last.Coordinates
	loc.Type = domain.LocationTransit
	if current.Category == domain.CategoryDelivered {
		loc.Type = domain.LocationDelivery
	}
	return &loc, true
}
