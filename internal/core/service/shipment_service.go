package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/carrier"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/pkg/metrics"
)

// maxGenerateAttempts bounds retries when a generated number is taken.
const maxGenerateAttempts = 5

type ShipmentService struct {
	repo     ports.ShipmentRepository
	registry *carrier.Registry
	now      func() time.Time
	logger   zerolog.Logger
}

var _ ports.ShipmentService = (*ShipmentService)(nil)

func NewShipmentService(repo ports.ShipmentRepository, registry *carrier.Registry, logger zerolog.Logger) *ShipmentService {
	return &ShipmentService{repo: repo, registry: registry, now: time.Now, logger: logger}
}

// Register creates a shipment record. If an idempotency key is provided and
// already seen, the previously created shipment is returned without side effects.
func (s *ShipmentService) Register(ctx context.Context, input ports.RegisterShipmentInput) (*ports.RegisterShipmentResult, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil && existing != nil {
			s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("tracking_number", existing.TrackingNumber).Msg("idempotent replay")
			return &ports.RegisterShipmentResult{Shipment: existing, AlreadyExisted: true}, nil
		}
	}

	now := s.now().UTC()
	record := &domain.ShipmentRecord{
		Sender:         input.Sender,
		Recipient:      input.Recipient,
		Package:        input.Package,
		Insurance:      input.Insurance,
		Preferences:    input.Preferences,
		CreatedAt:      now,
		UpdatedAt:      now,
		IdempotencyKey: input.IdempotencyKey,
	}
	if len(record.Preferences) == 0 {
		record.Preferences = domain.DefaultPreferences()
	}

	if input.TrackingNumber != "" {
		tn := carrier.Normalize(input.TrackingNumber)
		c := s.registry.Detect(tn)
		if !c.Known() {
			return nil, domain.NewTrackingError(domain.KindInvalidFormat, tn, domain.ErrInvalidFormat)
		}
		record.TrackingNumber, record.Carrier = tn, c
		if err := s.attachCustoms(record, input.Customs); err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, record); err != nil {
			s.logger.Error().Err(err).Str("tracking_number", tn).Msg("failed to register shipment")
			return nil, err
		}
	} else {
		if !input.Scope.Valid() {
			return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidShipment, input.Scope)
		}
		if err := s.createGenerated(ctx, record, input.Scope, input.Customs); err != nil {
			return nil, err
		}
	}

	metrics.ShipmentsRegisteredTotal.WithLabelValues(string(record.Carrier.ID)).Inc()
	s.logger.Info().
		Str("tracking_number", record.TrackingNumber).
		Str("carrier", string(record.Carrier.ID)).
		Msg("shipment registered")

	return &ports.RegisterShipmentResult{Shipment: record}, nil
}

func (s *ShipmentService) createGenerated(ctx context.Context, record *domain.ShipmentRecord, scope domain.Scope, customs *domain.CustomsInfo) error {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		tn, err := generateTrackingNumber(scope)
		if err != nil {
			return err
		}
		c := s.registry.Detect(tn)
		if !c.Known() {
			return fmt.Errorf("%w: no carrier accepts generated number %s", domain.ErrInvalidShipment, tn)
		}
		record.TrackingNumber, record.Carrier = tn, c
		if err := s.attachCustoms(record, customs); err != nil {
			return err
		}

		err = s.repo.Create(ctx, record)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateShipment) {
			s.logger.Error().Err(err).Msg("failed to register shipment")
			return err
		}
		s.logger.Debug().Str("tracking_number", tn).Msg("generated tracking number taken, retrying")
	}
	return fmt.Errorf("register shipment: %w: no free tracking number after %d attempts", domain.ErrDuplicateShipment, maxGenerateAttempts)
}

// attachCustoms enforces that customs data is present exactly on
// international shipments.
func (s *ShipmentService) attachCustoms(record *domain.ShipmentRecord, customs *domain.CustomsInfo) error {
	if !record.Carrier.International() {
		if customs != nil {
			return fmt.Errorf("%w: customs information on a national shipment", domain.ErrInvalidShipment)
		}
		return nil
	}
	if customs == nil || customs.Contents == "" {
		return fmt.Errorf("%w: customs information is required for international shipments", domain.ErrInvalidShipment)
	}
	c := *customs
	record.Customs = &c
	return nil
}

// Get returns the stored record for a tracking number.
func (s *ShipmentService) Get(ctx context.Context, trackingNumber string) (*domain.ShipmentRecord, error) {
	return s.repo.FindByTrackingNumber(ctx, carrier.Normalize(trackingNumber))
}

// UpdatePreferences replaces the notification preferences of a shipment.
func (s *ShipmentService) UpdatePreferences(ctx context.Context, trackingNumber string, prefs []domain.NotificationPreference) error {
	tn := carrier.Normalize(trackingNumber)
	for _, p := range prefs {
		switch p.Channel {
		case domain.ChannelEmail, domain.ChannelSMS, domain.ChannelPush:
		case domain.ChannelWebhook:
			if p.Target == "" {
				return fmt.Errorf("%w: webhook preference needs a target", domain.ErrInvalidShipment)
			}
		default:
			return fmt.Errorf("%w: unknown channel %q", domain.ErrInvalidShipment, p.Channel)
		}
	}
	if err := s.repo.UpdatePreferences(ctx, tn, prefs); err != nil {
		return err
	}
	s.logger.Info().Str("tracking_number", tn).Int("preferences", len(prefs)).Msg("notification preferences updated")
	return nil
}

// generateTrackingNumber returns a random number in the house format of the
// scope: BD + 6 digits nationally, DHL + 9 digits internationally.
func generateTrackingNumber(scope domain.Scope) (string, error) {
	prefix, digits := "BD", 6
	if scope == domain.ScopeInternational {
		prefix, digits = "DHL", 9
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate tracking number: %w", err)
	}
	return fmt.Sprintf("%s%0*d", prefix, digits, n.Int64()), nil
}
