package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/core/service"
)

// TrackingHandler serves the public tracking endpoints.
type TrackingHandler struct {
	service ports.TrackingService
	log     zerolog.Logger
}

func NewTrackingHandler(service ports.TrackingService, log zerolog.Logger) *TrackingHandler {
	return &TrackingHandler{service: service, log: log}
}

// Track godoc
//
//	@Summary		Track a shipment
//	@Description	Resolves the carrier, fetches the timeline and returns the current status with an ETA.
//	@Tags			tracking
//	@Produce		json
//	@Param			tracking_number	path		string	true	"Tracking number"
//	@Success		200				{object}	trackingResponse
//	@Failure		400				{object}	errorResponse
//	@Failure		404				{object}	errorResponse
//	@Failure		503				{object}	errorResponse
//	@Failure		504				{object}	errorResponse
//	@Router			/v1/tracking/{tracking_number} [get]
func (h *TrackingHandler) Track(c echo.Context) error {
	info, err := h.service.Track(c.Request().Context(), c.Param("tracking_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrackingResponse(info))
}

// Report godoc
//
//	@Summary	Plain-text tracking report
//	@Tags		tracking
//	@Produce	plain
//	@Param		tracking_number	path		string	true	"Tracking number"
//	@Success	200				{string}	string
//	@Failure	400				{object}	errorResponse
//	@Failure	404				{object}	errorResponse
//	@Router		/v1/tracking/{tracking_number}/report [get]
func (h *TrackingHandler) Report(c echo.Context) error {
	info, err := h.service.Track(c.Request().Context(), c.Param("tracking_number"))
	if err != nil {
		return err
	}
	report, err := service.Report(info)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, report)
}

// TrackBatch godoc
//
//	@Summary		Track several shipments
//	@Description	Tracks every number independently; one failure does not affect the others.
//	@Tags			tracking
//	@Accept			json
//	@Produce		json
//	@Param			body	body		batchTrackingRequest	true	"Tracking numbers"
//	@Success		200		{object}	batchTrackingResponse
//	@Failure		400		{object}	errorResponse
//	@Router			/v1/tracking/batch [post]
func (h *TrackingHandler) TrackBatch(c echo.Context) error {
	var req batchTrackingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := h.service.TrackBatch(c.Request().Context(), req.TrackingNumbers)
	if err != nil {
		return err
	}

	resp := batchTrackingResponse{Results: make([]batchEntryResponse, 0, len(results))}
	for tn, r := range results {
		entry := batchEntryResponse{TrackingNumber: tn}
		if r.Err != nil {
			_, body, ok := StatusFor(r.Err)
			if ok {
				h.log.Debug().Err(r.Err).Str("tracking_number", tn).Msg("batch entry failed")
			} else {
				h.log.Error().Err(r.Err).Str("tracking_number", tn).Msg("unhandled batch error")
			}
			entry.Error = &body
			resp.Failed++
		} else {
			entry.Result = toTrackingResponse(r.Info)
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, entry)
	}
	sort.Slice(resp.Results, func(i, j int) bool {
		return resp.Results[i].TrackingNumber < resp.Results[j].TrackingNumber
	})
	return c.JSON(http.StatusOK, resp)
}
