// Package carrierstest provides carrier adapters for tests and local runs.
package carrierstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

type step struct {
	offset      time.Duration
	code        string
	description string
	location    string
}

var nationalRoute = []step{
	{2 * time.Hour, "PICKED_UP", "Parcel picked up by our team", "Brazzaville, Congo"},
	{4 * time.Hour, "ARRIVED_AT_FACILITY", "Arrived at the Brazzaville sorting centre", "Brazzaville sorting centre"},
	{6 * time.Hour, "DEPARTED_FACILITY", "Departed for Pointe-Noire", "Brazzaville, Congo"},
	{12 * time.Hour, "ARRIVED_AT_FACILITY", "Arrived at the Pointe-Noire sorting centre", "Pointe-Noire sorting centre"},
	{14 * time.Hour, "OUT_FOR_DELIVERY", "Out for delivery", "Pointe-Noire, Congo"},
}

var internationalRoute = []step{
	{2 * time.Hour, "PICKED_UP", "Parcel picked up by DHL", "Berlin, Germany"},
	{4 * time.Hour, "ARRIVED_AT_FACILITY", "Arrived at the DHL sorting centre", "DHL Berlin sorting centre"},
	{8 * time.Hour, "DEPARTED_FACILITY", "Departed for the airport", "Berlin Brandenburg Airport"},
	{12 * time.Hour, "IN_TRANSIT", "In transit by air", "In flight"},
	{18 * time.Hour, "ARRIVED_AT_FACILITY", "Arrived at the destination sorting centre", "Brazzaville sorting centre"},
	{20 * time.Hour, "CUSTOMS_CLEARANCE", "In customs clearance", "Brazzaville customs"},
	{22 * time.Hour, "CUSTOMS_CLEARED", "Customs cleared", "Brazzaville, Congo"},
	{23 * time.Hour, "OUT_FOR_DELIVERY", "Out for delivery", "Brazzaville, Congo"},
}

// Synthetic fabricates a plausible route for any number, anchored 24h
// before Now. Event ids are stable per tracking number and step.
type Synthetic struct {
	International bool
	Now           func() time.Time

	mu     sync.Mutex
	absent map[string]struct{}
}

// Absent makes the listed numbers answer NOT_FOUND.
func (s *Synthetic) Absent(trackingNumbers ...string) *Synthetic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.absent == nil {
		s.absent = make(map[string]struct{}, len(trackingNumbers))
	}
	for _, tn := range trackingNumbers {
		s.absent[tn] = struct{}{}
	}
	return s
}

func (s *Synthetic) FetchTimeline(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	s.mu.Lock()
	_, missing := s.absent[trackingNumber]
	s.mu.Unlock()
	if missing {
		return nil, domain.ErrNotFound
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	base := now().UTC().Add(-24 * time.Hour).Truncate(time.Hour)

	route := nationalRoute
	if s.International {
		route = internationalRoute
	}
	events := make([]domain.TrackingEvent, 0, len(route))
	for i, st := range route {
		events = append(events, domain.TrackingEvent{
			ID:          fmt.Sprintf("%s-%d", trackingNumber, i+1),
			StatusCode:  st.code,
			Description: st.description,
			Timestamp:   base.Add(st.offset),
			Location:    st.location,
			Source:      "synthetic",
		})
	}
	return events, nil
}
