package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// LogSink writes notifications to the log. It stands in for the NATS sink
// when no broker is configured.
type LogSink struct {
	log zerolog.Logger
}

var _ ports.NotificationSink = LogSink{}

func NewLogSink(log zerolog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Send(_ context.Context, n domain.Notification) error {
	s.log.Info().
		Str("notification_id", n.ID).
		Str("tracking_number", n.TrackingNumber).
		Str("channel", string(n.Type)).
		Str("category", string(n.Category)).
		Str("recipient", n.Recipient).
		Msg("notification")
	return nil
}
