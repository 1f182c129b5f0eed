package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/pkg/metrics"
)

// publish hands notifications to the sink. Delivery failures are logged and
// counted; they never fail the request that produced them.
func publish(ctx context.Context, sink ports.NotificationSink, notifications []domain.Notification, log zerolog.Logger) {
	if sink == nil {
		return
	}
	for _, n := range notifications {
		if err := sink.Send(ctx, n); err != nil {
			metrics.NotificationsTotal.WithLabelValues(string(n.Type), string(n.Category), "failed").Inc()
			log.Error().Err(err).
				Str("tracking_number", n.TrackingNumber).
				Str("channel", string(n.Type)).
				Str("category", string(n.Category)).
				Msg("failed to send notification")
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(string(n.Type), string(n.Category), "sent").Inc()
	}
}
