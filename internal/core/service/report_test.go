package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

func TestReport(t *testing.T) {
	info := &ports.AdvancedTrackingInfo{
		TrackingNumber:    "BD123456",
		Carrier:           "BantuDelice",
		Type:              domain.ScopeNational,
		Status:            ports.StatusView{Description: "Out for delivery"},
		EstimatedDelivery: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		Sender:            domain.AddressInfo{Name: "Jean", Address: "Av 1", City: "Brazzaville", Country: "Congo"},
		Recipient:         recipient(),
		Package: domain.Package{
			WeightKg:     2.5,
			Dimensions:   domain.Dimensions{LengthCm: 30, WidthCm: 20, HeightCm: 10},
			ServiceLevel: "express",
			Instructions: "Leave with the neighbour",
		},
		Insurance: domain.InsuranceInfo{Amount: 50000, Currency: "XAF"},
		Timeline: []ports.TimelineEntry{
			{Description: "Picked up", Timestamp: time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC), Location: "Brazzaville, Congo"},
			{Description: "Out for delivery", Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		},
	}

	out, err := Report(info)
	require.NoError(t, err)

	for _, want := range []string{
		"TRACKING REPORT - BD123456",
		"CARRIER: BantuDelice",
		"TYPE: NATIONAL",
		"STATUS: Out for delivery",
		"ESTIMATED DELIVERY: 2026-03-11",
		"RECIPIENT:\nMarie Ngoma",
		"- Weight: 2.5 kg",
		"- Dimensions: 30x20x10 cm",
		"- Insurance: 50000 XAF",
		"2026-03-10 07:00 UTC - Picked up (Brazzaville, Congo)",
		"2026-03-10 09:00 UTC - Out for delivery\n",
		"INSTRUCTIONS: Leave with the neighbour",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "DELIVERED:")
	assert.False(t, strings.HasPrefix(out, "\n"))
}

func TestReport_Delivered(t *testing.T) {
	at := time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC)
	out, err := Report(&ports.AdvancedTrackingInfo{
		TrackingNumber: "DHL123456789",
		Type:           domain.ScopeInternational,
		ActualDelivery: &at,
		Degraded:       true,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "DELIVERED: 2026-03-12")
	assert.Contains(t, out, "NOTE: carrier unreachable")
	assert.NotContains(t, out, "ESTIMATED DELIVERY")
}
