package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/api"
	"github.com/99minutos/tracking-system/internal/api/handler"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/notify"
	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/core/service"
	"github.com/99minutos/tracking-system/internal/core/status"
	"github.com/99minutos/tracking-system/internal/core/timeline"
	"github.com/99minutos/tracking-system/internal/infrastructure/carriers"
	"github.com/99minutos/tracking-system/internal/infrastructure/catalog"
	"github.com/99minutos/tracking-system/internal/infrastructure/db/memory"
	mongodb "github.com/99minutos/tracking-system/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/tracking-system/internal/infrastructure/db/redis"
	"github.com/99minutos/tracking-system/internal/infrastructure/queue"
	"github.com/99minutos/tracking-system/internal/pkg/config"
	"github.com/99minutos/tracking-system/internal/pkg/metrics"
	"github.com/99minutos/tracking-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title						Tracking API
// @version					1.0
// @description				Shipment tracking and status resolution across carriers.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "tracking-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	cat, err := catalog.Load(cfg.Tracking.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	normalizer := status.NewNormalizer(cat.Table, logger.Component("status"),
		status.WithUnmappedHook(func(c domain.Carrier, code string) {
			metrics.UnmappedStatusTotal.WithLabelValues(string(c.ID), code).Inc()
		}),
	)

	health := map[string]handler.Checker{}

	// --- Storage ---
	var (
		shipments ports.ShipmentRepository
		events    ports.TimelineRepository
	)
	switch cfg.Storage {
	case config.StorageMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repos, err := mongodb.Open(ctx, db)
		if err != nil {
			return err
		}
		shipments, events = repos.Shipments, repos.Timelines
		health["mongodb"] = handler.Checker(mongodb.Ping(db))
	default:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		shipments, events = memory.NewShipmentRepository(), memory.NewTimelineRepository()
	}

	// --- Notification ledger ---
	var ledger ports.NotificationLedger = notify.NewMemoryLedger()
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		ledger = redisdb.NewLedger(rdb, cfg.Tracking.NotificationTTL)
		health["redis"] = handler.Checker(redisdb.Ping(rdb))
	}

	// --- Notification sink ---
	var sink ports.NotificationSink = queue.NewLogSink(logger.Component("notifications"))
	if cfg.NATS.URL != "" {
		nc, err := queue.Connect(cfg.NATS.URL, "tracking-api")
		if err != nil {
			return err
		}
		defer func() { _ = nc.Drain() }()
		sink = queue.NewNATSSink(nc, cfg.NATS.Subject)
		health["nats"] = func(context.Context) error {
			if nc.Status() != nats.CONNECTED {
				return fmt.Errorf("nats %s", nc.Status())
			}
			return nil
		}
	}

	// --- Engine ---
	timelines := timeline.NewStore(events, normalizer, logger.Component("timeline"),
		timeline.WithClockSkew(cfg.Tracking.ClockSkew),
		timeline.WithLocator(timeline.CommaLocator{DefaultCountry: cfg.Tracking.DefaultCountry}),
	)
	trigger := notify.NewTrigger(ledger, logger.Component("notify"))

	// Every carrier reads the shared store, each behind its own rate limit.
	store := carriers.NewStoreAdapter(events, shipments)
	gateway := carriers.NewRouter(nil)
	for _, rule := range cat.Registry.Rules() {
		gateway.Handle(rule.Carrier.ID, carriers.NewLimited(store, cfg.Tracking.CarrierRPS, cfg.Tracking.CarrierBurst))
	}

	tracking := service.NewTrackingService(service.TrackingDeps{
		Registry:   cat.Registry,
		Gateway:    gateway,
		Timelines:  timelines,
		Normalizer: normalizer,
		Shipments:  shipments,
		Trigger:    trigger,
		Sink:       sink,
	}, service.TrackingConfig{
		FetchTimeout:         cfg.Tracking.FetchTimeout,
		MaxRetries:           cfg.Tracking.MaxRetries,
		RetryInitialInterval: cfg.Tracking.RetryInitialInterval,
		RetryMaxInterval:     cfg.Tracking.RetryMaxInterval,
		BatchConcurrency:     cfg.Tracking.BatchConcurrency,
		BatchMaxSize:         cfg.Tracking.BatchMaxSize,
	}, logger.Component("tracking"))

	eventService := service.NewEventService(cat.Registry, timelines, shipments, trigger, sink, logger.Component("events"))
	shipmentService := service.NewShipmentService(shipments, cat.Registry, logger.Component("shipments"))

	// Workers outlive the signal context so Close can drain queued events.
	dispatcher := queue.NewDispatcher(cfg.Tracking.Workers, eventService, logger.Component("dispatcher"))
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Tracking:  tracking,
		Shipments: shipmentService,
		Events:    dispatcher,
		Carriers:  cat.Registry,
		Health:    health,
		JWTSecret: cfg.JWTSecret,
		Log:       logger.Component("http"),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.Storage).
			Int("carriers", len(cat.Registry.Rules())).
			Int("statuses", cat.Table.Len()).
			Msg("tracking api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		dispatcher.Close()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	dispatcher.Close()
	log.Info().Msg("dispatcher drained")
	return nil
}
