package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

// DefaultSubject prefixes notification subjects.
const DefaultSubject = "tracking.notifications"

// NATSSink publishes each notification as JSON on <subject>.<channel>, where
// channel delivery workers subscribe.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

var _ ports.NotificationSink = (*NATSSink)(nil)

func NewNATSSink(conn *nats.Conn, subject string) *NATSSink {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSSink{conn: conn, subject: subject}
}

// Connect dials NATS with reconnects enabled for the life of the process.
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}

// Subject returns the subject notifications of a channel are published on.
func (s *NATSSink) Subject(channel domain.Channel) string {
	return s.subject + "." + string(channel)
}

func (s *NATSSink) Send(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	msg := nats.NewMsg(s.Subject(n.Type))
	msg.Data = payload
	// Lets JetStream-backed consumers drop redeliveries.
	msg.Header.Set(nats.MsgIdHdr, n.ID)
	if err := s.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
