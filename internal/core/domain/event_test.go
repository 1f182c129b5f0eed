package domain

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func eventIDs(tl Timeline) []string {
	out := make([]string, 0, tl.Len())
	for _, ev := range tl.Events {
		out = append(out, ev.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewTimeline_SortsAndDeduplicates(t *testing.T) {
	tl := NewTimeline("BD123456", []TrackingEvent{
		{ID: "c", Timestamp: base.Add(2 * time.Hour)},
		{ID: "a", Timestamp: base},
		{ID: "b1", Timestamp: base.Add(time.Hour)},
		{ID: "a", Timestamp: base.Add(3 * time.Hour)},
		{ID: "b2", Timestamp: base.Add(time.Hour)},
	})

	if want := []string{"a", "b1", "b2", "c"}; !equal(eventIDs(tl), want) {
		t.Errorf("events = %v, want %v", eventIDs(tl), want)
	}
	if !tl.Sorted() {
		t.Error("timeline not sorted")
	}
	if last, _ := tl.Last(); last.ID != "c" {
		t.Errorf("Last = %s, want c", last.ID)
	}
}

func TestTimeline_Insert(t *testing.T) {
	tl := NewTimeline("BD123456", []TrackingEvent{
		{ID: "a", Timestamp: base},
		{ID: "c", Timestamp: base.Add(2 * time.Hour)},
	})

	got := tl.Insert(TrackingEvent{ID: "b", Timestamp: base.Add(time.Hour)})
	got = got.Insert(TrackingEvent{ID: "c2", Timestamp: base.Add(2 * time.Hour)})

	if want := []string{"a", "b", "c", "c2"}; !equal(eventIDs(got), want) {
		t.Errorf("events = %v, want %v", eventIDs(got), want)
	}
	if tl.Len() != 2 {
		t.Errorf("Insert modified the receiver: len = %d", tl.Len())
	}
	if !got.Contains("b") || got.Contains("z") {
		t.Error("Contains mismatch")
	}
}

func TestTimeline_Empty(t *testing.T) {
	var tl Timeline
	if !tl.Empty() || !tl.Sorted() {
		t.Error("zero timeline must be empty and sorted")
	}
	if _, ok := tl.Last(); ok {
		t.Error("Last on empty timeline must report false")
	}
}

func TestPreference_Wants(t *testing.T) {
	tests := []struct {
		name string
		pref NotificationPreference
		cat  Category
		want bool
	}{
		{"status changed", NotificationPreference{Channel: ChannelEmail, Enabled: true, Events: []string{EventStatusChanged}}, CategoryException, true},
		{"listed category", NotificationPreference{Channel: ChannelSMS, Enabled: true, Events: []string{"delivered"}}, CategoryDelivered, true},
		{"other category", NotificationPreference{Channel: ChannelSMS, Enabled: true, Events: []string{"delivered"}}, CategoryInTransit, false},
		{"disabled", NotificationPreference{Channel: ChannelEmail, Events: []string{EventStatusChanged}}, CategoryDelivered, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pref.Wants(tt.cat); got != tt.want {
				t.Errorf("Wants(%s) = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}

func TestCarrier_KnownAndScope(t *testing.T) {
	if UnknownCarrier.Known() || (Carrier{}).Known() {
		t.Error("unknown carrier reported as known")
	}
	dhl := Carrier{ID: CarrierDHL, Name: "DHL Express", Scope: ScopeInternational}
	if !dhl.Known() || !dhl.International() {
		t.Error("DHL must be known and international")
	}
	if (Carrier{ID: CarrierNational, Scope: ScopeNational}).International() {
		t.Error("national carrier reported as international")
	}
	if Scope("regional").Valid() {
		t.Error("unexpected scope accepted")
	}
	if !CategoryReturned.Valid() || Category("lost").Valid() {
		t.Error("Category.Valid mismatch")
	}
}
