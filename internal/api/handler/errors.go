package handler

import (
	"errors"
	"net/http"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// StatusFor maps a service error to its HTTP status and public envelope.
// The second result is false for errors that are not part of the API
// contract; those must be logged and answered with a generic 500.
func StatusFor(err error) (int, errorResponse, bool) {
	if kind, ok := domain.KindOf(err); ok {
		resp := errorResponse{Error: publicMessage(kind, err), Kind: string(kind)}
		switch kind {
		case domain.KindInvalidFormat:
			return http.StatusBadRequest, resp, true
		case domain.KindNotFound:
			return http.StatusNotFound, resp, true
		case domain.KindNetworkError:
			return http.StatusGatewayTimeout, resp, true
		case domain.KindCarrierUnavailable:
			return http.StatusServiceUnavailable, resp, true
		}
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateShipment):
		return http.StatusConflict, errorResponse{Error: err.Error()}, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}, true
	case errors.Is(err, domain.ErrEmptyBatch), errors.Is(err, domain.ErrBatchTooLarge):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}, true
	case errors.Is(err, domain.ErrInvalidShipment),
		errors.Is(err, domain.ErrInvalidEvent),
		errors.Is(err, domain.ErrStaleEvent):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}, true
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}, false
}

// publicMessage is the client-facing text for a tracking failure: the kind's
// sentinel and the tracking number. Causes stay in the logs.
func publicMessage(kind domain.ErrorKind, err error) string {
	msg := kind.Sentinel().Error()
	var te *domain.TrackingError
	if errors.As(err, &te) && te.TrackingNumber != "" {
		msg += ": " + te.TrackingNumber
	}
	return msg
}
