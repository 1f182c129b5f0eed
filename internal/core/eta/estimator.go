// Package eta estimates when a shipment will be delivered.
package eta

import (
	"time"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// Estimator computes an estimated delivery time from a timeline.
// Implementations may return a time in the past; callers go through Clamp.
type Estimator interface {
	Estimate(tl domain.Timeline, carrier domain.Carrier) time.Time
}

// EstimatorFunc adapts a function to Estimator.
type EstimatorFunc func(tl domain.Timeline, carrier domain.Carrier) time.Time

func (f EstimatorFunc) Estimate(tl domain.Timeline, carrier domain.Carrier) time.Time {
	return f(tl, carrier)
}

const (
	DefaultDomesticWindow      = 24 * time.Hour
	DefaultInternationalWindow = 48 * time.Hour
)

// Floor adds a fixed window to the last event: a lower bound, not a routing
// model.
type Floor struct {
	Domestic      time.Duration
	International time.Duration
}

// DefaultFloor is +24h domestic, +48h international.
func DefaultFloor() Floor {
	return Floor{Domestic: DefaultDomesticWindow, International: DefaultInternationalWindow}
}

func (f Floor) Estimate(tl domain.Timeline, carrier domain.Carrier) time.Time {
	last, ok := tl.Last()
	if !ok {
		return time.Time{}
	}
	if carrier.International() {
		return last.Timestamp.Add(f.International)
	}
	return last.Timestamp.Add(f.Domestic)
}

// Clamped guarantees ETA >= now and ETA >= the last event's timestamp.
type Clamped struct {
	next Estimator
	now  func() time.Time
}

// Clamp wraps next. A nil now uses time.Now.
func Clamp(next Estimator, now func() time.Time) *Clamped {
	if now == nil {
		now = time.Now
	}
	return &Clamped{next: next, now: now}
}

func (c *Clamped) Estimate(tl domain.Timeline, carrier domain.Carrier) time.Time {
	eta := c.next.Estimate(tl, carrier)

	lowest := c.now().UTC()
	if last, ok := tl.Last(); ok && last.Timestamp.After(lowest) {
		lowest = last.Timestamp
	}
	if eta.Before(lowest) {
		return lowest
	}
	return eta
}
