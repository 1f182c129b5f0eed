package domain

import (
	"sort"
	"time"
)

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// TrackingEvent is a single carrier scan. Immutable once recorded.
type TrackingEvent struct {
	ID          string       `json:"id" bson:"event_id"`
	StatusCode  string       `json:"status" bson:"status_code"`
	Description string       `json:"description" bson:"description"`
	Timestamp   time.Time    `json:"timestamp" bson:"timestamp"`
	Location    string       `json:"location" bson:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Source      string       `json:"source,omitempty" bson:"source,omitempty"`
}

// Timeline is the time-ordered event history of one shipment.
// Events[i].Timestamp <= Events[i+1].Timestamp always holds.
type Timeline struct {
	TrackingNumber string          `json:"tracking_number"`
	Events         []TrackingEvent `json:"events"`
}

// NewTimeline builds a timeline from events in any order. Events sharing an
// id are collapsed to the first occurrence; equal timestamps keep input order.
func NewTimeline(trackingNumber string, events []TrackingEvent) Timeline {
	seen := make(map[string]struct{}, len(events))
	out := make([]TrackingEvent, 0, len(events))
	for _, ev := range events {
		if _, dup := seen[ev.ID]; dup {
			continue
		}
		seen[ev.ID] = struct{}{}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return Timeline{TrackingNumber: trackingNumber, Events: out}
}

// Len returns the number of events.
func (t Timeline) Len() int { return len(t.Events) }

// Empty reports whether no event has been recorded.
func (t Timeline) Empty() bool { return len(t.Events) == 0 }

// Last returns the most recent event.
func (t Timeline) Last() (TrackingEvent, bool) {
	if len(t.Events) == 0 {
		return TrackingEvent{}, false
	}
	return t.Events[len(t.Events)-1], true
}

// Contains reports whether an event with the given id is already recorded.
func (t Timeline) Contains(id string) bool {
	for _, ev := range t.Events {
		if ev.ID == id {
			return true
		}
	}
	return false
}

// Insert returns a copy of the timeline with ev placed after every event
// whose timestamp is not later than ev's.
func (t Timeline) Insert(ev TrackingEvent) Timeline {
	pos := sort.Search(len(t.Events), func(i int) bool {
		return t.Events[i].Timestamp.After(ev.Timestamp)
	})
	events := make([]TrackingEvent, 0, len(t.Events)+1)
	events = append(events, t.Events[:pos]...)
	events = append(events, ev)
	events = append(events, t.Events[pos:]...)
	return Timeline{TrackingNumber: t.TrackingNumber, Events: events}
}

// Sorted reports whether the ordering invariant holds.
func (t Timeline) Sorted() bool {
	for i := 1; i < len(t.Events); i++ {
		if t.Events[i].Timestamp.Before(t.Events[i-1].Timestamp) {
			return false
		}
	}
	return true
}
