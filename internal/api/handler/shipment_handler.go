package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// IdempotencyKeyHeader lets clients retry a registration safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// ShipmentHandler handles HTTP requests for shipment records.
type ShipmentHandler struct {
	service ports.ShipmentService
}

func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// Register godoc
//
//	@Summary		Register a shipment
//	@Description	Stores sender, recipient and package data. A tracking number is generated when none is given.
//	@Tags			shipments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Idempotency-Key	header		string					false	"Idempotency key"
//	@Param			body			body		registerShipmentRequest	true	"Shipment"
//	@Success		201				{object}	shipmentResponse
//	@Success		200				{object}	shipmentResponse	"Idempotent replay"
//	@Failure		400				{object}	errorResponse
//	@Failure		409				{object}	errorResponse
//	@Failure		422				{object}	errorResponse
//	@Router			/v1/shipments [post]
func (h *ShipmentHandler) Register(c echo.Context) error {
	var req registerShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key := c.Request().Header.Get(IdempotencyKeyHeader)
	result, err := h.service.Register(c.Request().Context(), toRegisterInput(req, key))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/shipments/"+result.Shipment.TrackingNumber)
	return c.JSON(status, toShipmentResponse(result.Shipment))
}

// Get godoc
//
//	@Summary	Get a shipment record
//	@Tags		shipments
//	@Produce	json
//	@Param		tracking_number	path		string	true	"Tracking number"
//	@Success	200				{object}	shipmentResponse
//	@Failure	404				{object}	errorResponse
//	@Router		/v1/shipments/{tracking_number} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	s, err := h.service.Get(c.Request().Context(), c.Param("tracking_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(s))
}

// UpdatePreferences godoc
//
//	@Summary	Replace notification preferences
//	@Tags		shipments
//	@Accept		json
//	@Security	BearerAuth
//	@Param		tracking_number	path	string						true	"Tracking number"
//	@Param		body			body	updatePreferencesRequest	true	"Preferences"
//	@Success	204
//	@Failure	400	{object}	errorResponse
//	@Failure	404	{object}	errorResponse
//	@Router		/v1/shipments/{tracking_number}/preferences [put]
func (h *ShipmentHandler) UpdatePreferences(c echo.Context) error {
	var req updatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prefs := toPreferences(req.Notifications)
	if prefs == nil {
		prefs = []domain.NotificationPreference{}
	}
	if err := h.service.UpdatePreferences(c.Request().Context(), c.Param("tracking_number"), prefs); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
