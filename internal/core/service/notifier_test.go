package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/pkg/metrics"
)

type refusingSink struct{}

func (refusingSink) Send(context.Context, domain.Notification) error {
	return errors.New("nats: connection closed")
}

func TestPublish_CountsByChannelAndCategory(t *testing.T) {
	sent := metrics.NotificationsTotal.WithLabelValues("webhook", "returned", "sent")
	failed := metrics.NotificationsTotal.WithLabelValues("webhook", "returned", "failed")
	sentBefore, failedBefore := testutil.ToFloat64(sent), testutil.ToFloat64(failed)

	n := domain.Notification{Type: domain.ChannelWebhook, Category: domain.CategoryReturned, TrackingNumber: "BD123456"}
	sink := &recordingSink{}
	publish(context.Background(), sink, []domain.Notification{n, n}, discardLogger)
	publish(context.Background(), refusingSink{}, []domain.Notification{n}, discardLogger)

	assert.Len(t, sink.Sent(), 2)
	assert.Equal(t, sentBefore+2, testutil.ToFloat64(sent))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}
