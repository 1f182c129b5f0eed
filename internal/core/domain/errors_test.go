package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTrackingError_IsMatchesKindSentinel(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		sentinel error
	}{
		{KindInvalidFormat, ErrInvalidFormat},
		{KindNotFound, ErrNotFound},
		{KindNetworkError, ErrNetwork},
		{KindCarrierUnavailable, ErrCarrierUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("track: %w", NewTrackingError(tt.kind, "BD123456", errors.New("boom")))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			if kind, ok := KindOf(err); !ok || kind != tt.kind {
				t.Errorf("KindOf = %q, %v; want %q", kind, ok, tt.kind)
			}
		})
	}
}

func TestTrackingError_Message(t *testing.T) {
	plain := NewTrackingError(KindNotFound, "BD123456", ErrNotFound)
	if got, want := plain.Error(), "NOT_FOUND: BD123456"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	withCause := NewTrackingError(KindNetworkError, "BD123456", errors.New("dial tcp: timeout"))
	if got, want := withCause.Error(), "NETWORK_ERROR: BD123456: dial tcp: timeout"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKindOf_Sentinels(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
		ok   bool
	}{
		{fmt.Errorf("x: %w", ErrInvalidFormat), KindInvalidFormat, true},
		{ErrShipmentNotFound, KindNotFound, true},
		{fmt.Errorf("x: %w", ErrNetwork), KindNetworkError, true},
		{ErrCarrierUnavailable, KindCarrierUnavailable, true},
		{errors.New("other"), "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		kind, ok := KindOf(tt.err)
		if kind != tt.want || ok != tt.ok {
			t.Errorf("KindOf(%v) = %q, %v; want %q, %v", tt.err, kind, ok, tt.want, tt.ok)
		}
	}
}

func TestErrorKind_Retryable(t *testing.T) {
	for _, k := range []ErrorKind{KindInvalidFormat, KindNotFound, KindCarrierUnavailable} {
		if k.Retryable() {
			t.Errorf("%s must not be retryable", k)
		}
	}
	if !KindNetworkError.Retryable() {
		t.Error("NETWORK_ERROR must be retryable")
	}
}

func TestRejectedEvent_Is(t *testing.T) {
	tests := []struct {
		reason RejectReason
		want   error
		not    error
	}{
		{RejectDuplicate, ErrDuplicateEvent, ErrStaleEvent},
		{RejectStale, ErrStaleEvent, ErrInvalidEvent},
		{RejectInvalid, ErrInvalidEvent, ErrDuplicateEvent},
	}
	for _, tt := range tests {
		err := fmt.Errorf("append: %w", &RejectedEvent{Event: TrackingEvent{ID: "e1"}, Reason: tt.reason})
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: errors.Is(%v) = false", tt.reason, tt.want)
		}
		if errors.Is(err, tt.not) {
			t.Errorf("%s: errors.Is(%v) = true", tt.reason, tt.not)
		}
	}
}
