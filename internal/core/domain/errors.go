package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of reasons a tracking request can fail.
type ErrorKind string

const (
	KindInvalidFormat      ErrorKind = "INVALID_FORMAT"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindNetworkError       ErrorKind = "NETWORK_ERROR"
	KindCarrierUnavailable ErrorKind = "CARRIER_UNAVAILABLE"
)

// Sentinels for each kind. Carrier adapters return these (wrapped) and
// callers test for them with errors.Is.
var (
	ErrInvalidFormat      = errors.New("invalid tracking number format")
	ErrNotFound           = errors.New("no such tracking number")
	ErrNetwork            = errors.New("carrier network error")
	ErrCarrierUnavailable = errors.New("carrier temporarily unavailable")
)

var (
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrDuplicateShipment = errors.New("shipment already exists")
	ErrInvalidShipment   = errors.New("invalid shipment")
	ErrDuplicateEvent    = errors.New("duplicate tracking event")
	ErrStaleEvent        = errors.New("tracking event older than timeline")
	ErrInvalidEvent      = errors.New("invalid tracking event")
	ErrForbidden         = errors.New("access forbidden")
	ErrEmptyBatch        = errors.New("batch cannot be empty")
	ErrBatchTooLarge     = errors.New("batch too large")
)

// Sentinel returns the sentinel error for the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindInvalidFormat:
		return ErrInvalidFormat
	case KindNotFound:
		return ErrNotFound
	case KindNetworkError:
		return ErrNetwork
	case KindCarrierUnavailable:
		return ErrCarrierUnavailable
	}
	return nil
}

// Retryable reports whether the fetch step should try again.
func (k ErrorKind) Retryable() bool {
	return k == KindNetworkError
}

// TrackingError is the typed failure of a tracking request.
type TrackingError struct {
	Kind           ErrorKind
	TrackingNumber string
	Err            error
}

// NewTrackingError wraps cause under kind.
func NewTrackingError(kind ErrorKind, trackingNumber string, cause error) *TrackingError {
	return &TrackingError{Kind: kind, TrackingNumber: trackingNumber, Err: cause}
}

func (e *TrackingError) Error() string {
	if e.Err == nil || e.Err == e.Kind.Sentinel() {
		return fmt.Sprintf("%s: %s", e.Kind, e.TrackingNumber)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.TrackingNumber, e.Err)
}

func (e *TrackingError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *TrackingError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// KindOf extracts the kind from err. The second result is false when err
// does not belong to the tracking taxonomy.
func KindOf(err error) (ErrorKind, bool) {
	var te *TrackingError
	if errors.As(err, &te) {
		return te.Kind, true
	}
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return KindInvalidFormat, true
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrShipmentNotFound):
		return KindNotFound, true
	case errors.Is(err, ErrNetwork):
		return KindNetworkError, true
	case errors.Is(err, ErrCarrierUnavailable):
		return KindCarrierUnavailable, true
	}
	return "", false
}

// RejectReason says why the timeline refused an event.
type RejectReason string

const (
	RejectDuplicate RejectReason = "duplicate"
	RejectStale     RejectReason = "stale"
	RejectInvalid   RejectReason = "invalid"
)

// RejectedEvent is returned when an event cannot be appended to a timeline.
type RejectedEvent struct {
	Event  TrackingEvent
	Reason RejectReason
}

func (r *RejectedEvent) Error() string {
	return fmt.Sprintf("event %s rejected: %s", r.Event.ID, r.Reason)
}

// Is lets callers test for ErrDuplicateEvent or ErrStaleEvent.
func (r *RejectedEvent) Is(target error) bool {
	switch r.Reason {
	case RejectDuplicate:
		return target == ErrDuplicateEvent
	case RejectStale:
		return target == ErrStaleEvent
	case RejectInvalid:
		return target == ErrInvalidEvent
	}
	return false
}
