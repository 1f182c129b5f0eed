package carrierstest

import (
	"context"
	"sync"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// Scripted injects faults: the n-th call returns the n-th scripted error;
// once the script is exhausted calls go to Next.
type Scripted struct {
	Next ports.CarrierAdapter

	mu     sync.Mutex
	script []error
	calls  int
}

// NewScripted fails with errs in order, then delegates to next.
func NewScripted(next ports.CarrierAdapter, errs ...error) *Scripted {
	return &Scripted{Next: next, script: errs}
}

func (s *Scripted) FetchTimeline(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	s.mu.Lock()
	n := s.calls
	s.calls++
	s.mu.Unlock()

	if n < len(s.script) && s.script[n] != nil {
		return nil, s.script[n]
	}
	return s.Next.FetchTimeline(ctx, trackingNumber)
}

// Calls reports how many fetches were attempted.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Func adapts a function to ports.CarrierAdapter.
type Func func(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error)

func (f Func) FetchTimeline(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	return f(ctx, trackingNumber)
}

// Events returns a fixed timeline.
func Events(events ...domain.TrackingEvent) Func {
	return func(context.Context, string) ([]domain.TrackingEvent, error) {
		out := make([]domain.TrackingEvent, len(events))
		copy(out, events)
		return out, nil
	}
}
