package carriers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// Limited throttles calls to a carrier so retries and batch fan-out cannot
// exceed the carrier's quota.
type Limited struct {
	next    ports.CarrierAdapter
	limiter *rate.Limiter
}

var _ ports.CarrierAdapter = (*Limited)(nil)

// NewLimited allows rps calls per second with bursts of burst calls.
// A non-positive rps disables the limit.
func NewLimited(next ports.CarrierAdapter, rps float64, burst int) *Limited {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// FetchTimeline waits for a token. A wait cut short by the context is a
// network error, so the caller's retry policy applies.
func (l *Limited) FetchTimeline(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", domain.ErrNetwork, err)
	}
	return l.next.FetchTimeline(ctx, trackingNumber)
}
