// Package carriers connects the tracking engine to carrier data sources.
package carriers

import (
	"context"
	"fmt"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// Router dispatches fetches to the adapter registered for each carrier and
// falls back to a default adapter for the others.
type Router struct {
	adapters map[domain.CarrierID]ports.CarrierAdapter
	fallback ports.CarrierAdapter
}

var _ ports.CarrierGateway = (*Router)(nil)

// NewRouter returns a router; fallback may be nil.
func NewRouter(fallback ports.CarrierAdapter) *Router {
	return &Router{adapters: make(map[domain.CarrierID]ports.CarrierAdapter), fallback: fallback}
}

// Handle registers adapter for id, replacing any previous one. It is not
// safe to call once the router serves requests.
func (r *Router) Handle(id domain.CarrierID, adapter ports.CarrierAdapter) *Router {
	r.adapters[id] = adapter
	return r
}

func (r *Router) FetchTimeline(ctx context.Context, carrier domain.Carrier, trackingNumber string) ([]domain.TrackingEvent, error) {
	adapter, ok := r.adapters[carrier.ID]
	if !ok {
		adapter = r.fallback
	}
	if adapter == nil {
		return nil, fmt.Errorf("%w: no adapter for carrier %s", domain.ErrCarrierUnavailable, carrier.ID)
	}
	return adapter.FetchTimeline(ctx, trackingNumber)
}
