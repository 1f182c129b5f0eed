package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/tracking-system/internal/api/middleware"
	"github.com/99minutos/tracking-system/internal/core/carrier"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// EventDispatcher accepts events for asynchronous, per-shipment ordered processing.
type EventDispatcher interface {
	Enqueue(ctx context.Context, event ports.TrackingEventInput) error
	EnqueueBatch(ctx context.Context, events []ports.TrackingEventInput) (int, error)
}

// CarrierDetector resolves the carrier of a tracking number.
type CarrierDetector interface {
	Detect(trackingNumber string) domain.Carrier
}

// maxEventBatch bounds a single webhook delivery.
const maxEventBatch = 500

// EventHandler receives carrier scans pushed through the webhook.
type EventHandler struct {
	dispatcher EventDispatcher
	carriers   CarrierDetector
}

func NewEventHandler(dispatcher EventDispatcher, carriers CarrierDetector) *EventHandler {
	return &EventHandler{dispatcher: dispatcher, carriers: carriers}
}

// Receive godoc
//
//	@Summary		Push a tracking event
//	@Description	Queues one carrier scan. Processing is asynchronous; duplicates are ignored.
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		trackingEventRequest	true	"Tracking event"
//	@Success		202		{object}	acceptedResponse
//	@Failure		400		{object}	errorResponse
//	@Failure		403		{object}	errorResponse
//	@Router			/v1/events [post]
func (h *EventHandler) Receive(c echo.Context) error {
	var req trackingEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.authorize(c, req.TrackingNumber); err != nil {
		return err
	}

	if err := h.dispatcher.Enqueue(c.Request().Context(), toEventInput(req)); err != nil {
		return fmt.Errorf("enqueue event: %w", err)
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted", Count: 1})
}

// ReceiveBatch godoc
//
//	@Summary	Push several tracking events
//	@Tags		events
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		[]trackingEventRequest	true	"Tracking events"
//	@Success	202		{object}	acceptedResponse
//	@Failure	400		{object}	errorResponse
//	@Failure	403		{object}	errorResponse
//	@Router		/v1/events/batch [post]
func (h *EventHandler) ReceiveBatch(c echo.Context) error {
	var reqs []trackingEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(reqs) == 0 {
		return domain.ErrEmptyBatch
	}
	if len(reqs) > maxEventBatch {
		return fmt.Errorf("%w: %d events, limit is %d", domain.ErrBatchTooLarge, len(reqs), maxEventBatch)
	}

	inputs := make([]ports.TrackingEventInput, 0, len(reqs))
	for i := range reqs {
		if err := c.Validate(&reqs[i]); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("event %d: %s", i, err))
		}
		if err := h.authorize(c, reqs[i].TrackingNumber); err != nil {
			return err
		}
		inputs = append(inputs, toEventInput(reqs[i]))
	}

	n, err := h.dispatcher.EnqueueBatch(c.Request().Context(), inputs)
	if err != nil {
		return fmt.Errorf("enqueue events (%d of %d queued): %w", n, len(inputs), err)
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "events accepted", Count: n})
}

// authorize rejects numbers outside the carrier a token is scoped to.
// Tokens without a carrier claim may push for any carrier.
func (h *EventHandler) authorize(c echo.Context, trackingNumber string) error {
	scope, _ := c.Get(middleware.ContextCarrier).(string)
	if scope == "" {
		return nil
	}
	detected := h.carriers.Detect(carrier.Normalize(trackingNumber))
	if !detected.Known() {
		return domain.NewTrackingError(domain.KindInvalidFormat, carrier.Normalize(trackingNumber), domain.ErrInvalidFormat)
	}
	if string(detected.ID) != scope {
		return fmt.Errorf("%w: token for %s cannot push %s events", domain.ErrForbidden, scope, detected.ID)
	}
	return nil
}
