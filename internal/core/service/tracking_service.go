package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/tracking-system/internal/core/carrier"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/eta"
	"github.com/99minutos/tracking-system/internal/core/notify"
	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/core/status"
	"github.com/99minutos/tracking-system/internal/core/timeline"
	"github.com/99minutos/tracking-system/internal/pkg/metrics"
)

// TrackingConfig tunes the fetch step and batch fan-out.
type TrackingConfig struct {
	FetchTimeout         time.Duration
	MaxRetries           int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	BatchConcurrency     int
	BatchMaxSize         int
}

// DefaultTrackingConfig returns the production defaults.
func DefaultTrackingConfig() TrackingConfig {
	return TrackingConfig{
		FetchTimeout:         5 * time.Second,
		MaxRetries:           3,
		RetryInitialInterval: 200 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		BatchConcurrency:     8,
		BatchMaxSize:         50,
	}
}

func (c TrackingConfig) withDefaults() TrackingConfig {
	d := DefaultTrackingConfig()
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryInitialInterval <= 0 {
		c.RetryInitialInterval = d.RetryInitialInterval
	}
	if c.RetryMaxInterval < c.RetryInitialInterval {
		c.RetryMaxInterval = max(d.RetryMaxInterval, c.RetryInitialInterval)
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = d.BatchConcurrency
	}
	if c.BatchMaxSize <= 0 {
		c.BatchMaxSize = d.BatchMaxSize
	}
	return c
}

// TrackingDeps are the collaborators of TrackingService. Sink may be nil.
type TrackingDeps struct {
	Registry   *carrier.Registry
	Gateway    ports.CarrierGateway
	Timelines  *timeline.Store
	Normalizer *status.Normalizer
	Shipments  ports.ShipmentRepository
	Estimator  eta.Estimator
	Trigger    *notify.Trigger
	Sink       ports.NotificationSink
	Now        func() time.Time
}

// TrackingService runs the PARSE -> FETCH -> NORMALIZE -> ESTIMATE ->
// ASSEMBLE pipeline for one tracking number.
type TrackingService struct {
	registry   *carrier.Registry
	gateway    ports.CarrierGateway
	timelines  *timeline.Store
	normalizer *status.Normalizer
	shipments  ports.ShipmentRepository
	estimator  eta.Estimator
	trigger    *notify.Trigger
	sink       ports.NotificationSink
	now        func() time.Time
	cfg        TrackingConfig
	log        zerolog.Logger
}

var _ ports.TrackingService = (*TrackingService)(nil)

func NewTrackingService(deps TrackingDeps, cfg TrackingConfig, log zerolog.Logger) *TrackingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	estimator := deps.Estimator
	if estimator == nil {
		estimator = eta.DefaultFloor()
	}
	return &TrackingService{
		registry:   deps.Registry,
		gateway:    deps.Gateway,
		timelines:  deps.Timelines,
		normalizer: deps.Normalizer,
		shipments:  deps.Shipments,
		estimator:  eta.Clamp(estimator, now),
		trigger:    deps.Trigger,
		sink:       deps.Sink,
		now:        now,
		cfg:        cfg.withDefaults(),
		log:        log,
	}
}

// Track resolves one tracking number. Every failure is a *domain.TrackingError.
func (s *TrackingService) Track(ctx context.Context, raw string) (*ports.AdvancedTrackingInfo, error) {
	trackingNumber := carrier.Normalize(raw)

	// PARSE
	c := s.registry.Detect(trackingNumber)
	if !c.Known() {
		metrics.RequestsTotal.WithLabelValues(string(domain.CarrierUnknown), string(domain.KindInvalidFormat)).Inc()
		return nil, domain.NewTrackingError(domain.KindInvalidFormat, trackingNumber, domain.ErrInvalidFormat)
	}

	info, err := s.track(ctx, c, trackingNumber)
	if err != nil {
		kind, _ := domain.KindOf(err)
		metrics.RequestsTotal.WithLabelValues(string(c.ID), string(kind)).Inc()
		s.log.Info().Err(err).
			Str("tracking_number", trackingNumber).
			Str("carrier", string(c.ID)).
			Msg("tracking failed")
		return nil, err
	}

	result := "ok"
	if info.Degraded {
		result = "degraded"
	}
	metrics.RequestsTotal.WithLabelValues(string(c.ID), result).Inc()
	return info, nil
}

func (s *TrackingService) track(ctx context.Context, c domain.Carrier, trackingNumber string) (*ports.AdvancedTrackingInfo, error) {
	fail := func(kind domain.ErrorKind, cause error) error {
		return domain.NewTrackingError(kind, trackingNumber, cause)
	}

	// FETCH
	events, fetchErr := s.fetch(ctx, c, trackingNumber)

	record, err := s.shipments.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if !errors.Is(err, domain.ErrShipmentNotFound) {
			return nil, fail(domain.KindCarrierUnavailable, fmt.Errorf("load shipment: %w", err))
		}
		record = nil
	}

	var prev, cur domain.Timeline
	degraded := false
	switch kind := classify(fetchErr); {
	case fetchErr == nil:
		if len(events) == 0 && record == nil {
			return nil, fail(domain.KindNotFound, domain.ErrNotFound)
		}
		prev, cur, err = s.timelines.Merge(ctx, trackingNumber, withEventIDs(trackingNumber, events))
		if err != nil {
			return nil, fail(domain.KindCarrierUnavailable, err)
		}
		if cur.Empty() && record == nil {
			return nil, fail(domain.KindCarrierUnavailable,
				fmt.Errorf("%w: none of %d carrier events is usable", domain.ErrCarrierUnavailable, len(events)))
		}
	case kind == domain.KindCarrierUnavailable:
		stored, err := s.timelines.Load(ctx, trackingNumber)
		if err != nil || stored.Empty() {
			return nil, fail(kind, fetchErr)
		}
		s.log.Warn().Err(fetchErr).
			Str("tracking_number", trackingNumber).
			Int("events", stored.Len()).
			Msg("carrier unavailable, serving stored timeline")
		prev, cur, degraded = stored, stored, true
	default:
		return nil, fail(kind, fetchErr)
	}

	// NORMALIZE
	display := cur
	if display.Empty() {
		display = registeredTimeline(record)
	}
	current, _ := s.timelines.CurrentStatus(c, display)
	previous := current
	if lastPrev, ok := prev.Last(); !ok {
		previous = domain.CanonicalStatus{}
	} else if lastCur, _ := cur.Last(); lastPrev.ID != lastCur.ID {
		previous, _ = s.timelines.CurrentStatus(c, prev)
	}

	// ESTIMATE
	last, _ := display.Last()
	var estimated time.Time
	var delivered *time.Time
	if current.Category == domain.CategoryDelivered {
		at := last.Timestamp
		estimated, delivered = at, &at
	} else {
		estimated = s.estimator.Estimate(display, c)
	}

	// ASSEMBLE
	info := &ports.AdvancedTrackingInfo{
		TrackingNumber: trackingNumber,
		Status: ports.StatusView{
			Code:        current.Code,
			Description: current.Description,
			Category:    current.Category,
			Timestamp:   last.Timestamp,
			Location:    last.Location,
		},
		Type:              c.Scope,
		Carrier:           c.Name,
		CarrierID:         c.ID,
		EstimatedDelivery: estimated,
		ActualDelivery:    delivered,
		Timeline:          s.entries(c, display),
		Degraded:          degraded,
	}
	if loc, ok := s.timelines.CurrentLocation(display, current); ok {
		info.CurrentLocation = loc
	}
	if record != nil {
		info.Sender = record.Sender
		info.Recipient = record.Recipient
		info.Package = record.Package
		info.Insurance = record.Insurance
		if c.International() {
			info.Customs = record.Customs
		}
		if !degraded && !cur.Empty() {
			info.Notifications = s.trigger.OnTimelineUpdate(ctx, record, previous, current, record.Preferences)
		}
	}

	publish(ctx, s.sink, info.Notifications, s.log)
	return info, nil
}

// fetch asks the carrier for the timeline, retrying network errors with
// exponential backoff. Each attempt gets its own timeout.
func (s *TrackingService) fetch(ctx context.Context, c domain.Carrier, trackingNumber string) ([]domain.TrackingEvent, error) {
	start := s.now()
	defer func() {
		metrics.FetchDuration.WithLabelValues(string(c.ID)).Observe(s.now().Sub(start).Seconds())
	}()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.RetryInitialInterval
	b.MaxInterval = s.cfg.RetryMaxInterval

	attempt := 0
	op := func() ([]domain.TrackingEvent, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()

		events, err := s.gateway.FetchTimeline(attemptCtx, c, trackingNumber)
		if err == nil {
			metrics.FetchAttemptsTotal.WithLabelValues(string(c.ID), "ok").Inc()
			return events, nil
		}

		if ctx.Err() != nil {
			metrics.FetchAttemptsTotal.WithLabelValues(string(c.ID), "cancelled").Inc()
			return nil, backoff.Permanent(fmt.Errorf("%w: %w", domain.ErrNetwork, ctx.Err()))
		}
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.FetchAttemptsTotal.WithLabelValues(string(c.ID), "timeout").Inc()
			err = fmt.Errorf("%w: attempt timed out after %s", domain.ErrNetwork, s.cfg.FetchTimeout)
		}

		kind := classify(err)
		metrics.FetchAttemptsTotal.WithLabelValues(string(c.ID), outcomeLabel(kind)).Inc()
		if !kind.Retryable() {
			return nil, backoff.Permanent(err)
		}
		s.log.Warn().Err(err).
			Str("tracking_number", trackingNumber).
			Str("carrier", string(c.ID)).
			Int("attempt", attempt).
			Msg("carrier fetch failed")
		return nil, err
	}

	events, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(s.cfg.MaxRetries+1)),
	)
	if err != nil {
		// Cancelled while waiting between attempts.
		if _, ok := domain.KindOf(err); !ok && ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", domain.ErrNetwork, err)
		}
		return nil, err
	}
	return events, nil
}

// withEventIDs gives carrier events without an id the same derived id a
// webhook push of that scan would get.
func withEventIDs(trackingNumber string, events []domain.TrackingEvent) []domain.TrackingEvent {
	out := make([]domain.TrackingEvent, len(events))
	for i, ev := range events {
		if ev.ID == "" && !ev.Timestamp.IsZero() {
			ev.ID = EventID(trackingNumber, ev.StatusCode, ev.Timestamp)
		}
		out[i] = ev
	}
	return out
}

// classify maps a fetch error to its kind. Errors an adapter failed to
// classify are assumed transient.
func classify(err error) domain.ErrorKind {
	if err == nil {
		return ""
	}
	if kind, ok := domain.KindOf(err); ok {
		return kind
	}
	return domain.KindNetworkError
}

func outcomeLabel(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindNotFound:
		return "not_found"
	case domain.KindCarrierUnavailable:
		return "carrier_unavailable"
	case domain.KindInvalidFormat:
		return "invalid_format"
	default:
		return "network_error"
	}
}

func (s *TrackingService) entries(c domain.Carrier, tl domain.Timeline) []ports.TimelineEntry {
	out := make([]ports.TimelineEntry, 0, tl.Len())
	for _, ev := range tl.Events {
		desc := ev.Description
		if desc == "" {
			if st, ok := s.normalizer.Lookup(c, ev.StatusCode); ok {
				desc = st.Description
			}
		}
		out = append(out, ports.TimelineEntry{
			Status:      ev.StatusCode,
			Description: desc,
			Timestamp:   ev.Timestamp,
			Location:    ev.Location,
			Coordinates: ev.Coordinates,
		})
	}
	return out
}

// registeredTimeline stands in for a shipment that has no carrier scan yet.
// It is display-only and never persisted.
func registeredTimeline(record *domain.ShipmentRecord) domain.Timeline {
	if record == nil {
		return domain.Timeline{}
	}
	location := record.Sender.City
	if record.Sender.Country != "" {
		location += ", " + record.Sender.Country
	}
	return domain.NewTimeline(record.TrackingNumber, []domain.TrackingEvent{{
		ID:          "registered",
		StatusCode:  "PENDING",
		Description: "Shipment registered, awaiting pickup",
		Timestamp:   record.CreatedAt,
		Location:    location,
	}})
}

// TrackBatch fans out independent Track calls. One number failing never
// affects the others; the error return is reserved for a malformed batch.
func (s *TrackingService) TrackBatch(ctx context.Context, trackingNumbers []string) (map[string]ports.BatchResult, error) {
	seen := make(map[string]struct{}, len(trackingNumbers))
	unique := make([]string, 0, len(trackingNumbers))
	for _, raw := range trackingNumbers {
		tn := carrier.Normalize(raw)
		if tn == "" {
			continue
		}
		if _, dup := seen[tn]; dup {
			continue
		}
		seen[tn] = struct{}{}
		unique = append(unique, tn)
	}
	if len(unique) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(unique) > s.cfg.BatchMaxSize {
		return nil, fmt.Errorf("%w: %d numbers, max %d", domain.ErrBatchTooLarge, len(unique), s.cfg.BatchMaxSize)
	}

	var (
		mu      sync.Mutex
		results = make(map[string]ports.BatchResult, len(unique))
		g       errgroup.Group
	)
	g.SetLimit(s.cfg.BatchConcurrency)
	for _, tn := range unique {
		g.Go(func() error {
			info, err := s.Track(ctx, tn)
			mu.Lock()
			results[tn] = ports.BatchResult{Info: info, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}
