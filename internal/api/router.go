package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/tracking-system/internal/api/docs"
	"github.com/99minutos/tracking-system/internal/api/handler"
	"github.com/99minutos/tracking-system/internal/api/middleware"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// Dependencies are the services and settings the HTTP surface is built from.
type Dependencies struct {
	Tracking  ports.TrackingService
	Shipments ports.ShipmentService
	Events    handler.EventDispatcher
	Carriers  handler.CarrierDetector
	// Health maps dependency names to readiness probes.
	Health    map[string]handler.Checker
	JWTSecret string
	Log       zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(metricsMiddleware(deps.Registry))

	// --- Handlers ---
	trackingHandler := handler.NewTrackingHandler(deps.Tracking, deps.Log)
	shipmentHandler := handler.NewShipmentHandler(deps.Shipments)
	eventHandler := handler.NewEventHandler(deps.Events, deps.Carriers)
	healthHandler := handler.NewHealthHandler(deps.Health)
	auth := middleware.Auth(deps.JWTSecret)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Tracking (public) ---
	v1.GET("/tracking/:tracking_number", trackingHandler.Track)
	v1.GET("/tracking/:tracking_number/report", trackingHandler.Report)
	v1.POST("/tracking/batch", trackingHandler.TrackBatch)

	// --- Carrier webhook ---
	events := v1.Group("/events", auth, middleware.RBAC(domain.RoleCarrier, domain.RoleAdmin))
	events.POST("", eventHandler.Receive)
	events.POST("/batch", eventHandler.ReceiveBatch)

	// --- Shipments ---
	v1.GET("/shipments/:tracking_number", shipmentHandler.Get)
	v1.POST("/shipments", shipmentHandler.Register, auth, middleware.RBAC(domain.RoleCarrier, domain.RoleAdmin))
	v1.PUT("/shipments/:tracking_number/preferences", shipmentHandler.UpdatePreferences, auth, middleware.RBAC(domain.RoleAdmin))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("tracking_http")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "tracking_http",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
