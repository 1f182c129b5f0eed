package status

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

var dhl = domain.Carrier{ID: domain.CarrierDHL, Name: "DHL Express", Scope: domain.ScopeInternational}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, 18, table.Len())

	for _, s := range DefaultStatuses() {
		got, ok := table.Lookup(domain.CarrierNational, s.Code)
		require.True(t, ok, s.Code)
		assert.Equal(t, s.Category, got.Category)
	}
}

func TestNewTable_Invalid(t *testing.T) {
	tests := map[string]struct {
		statuses []domain.CanonicalStatus
		aliases  map[domain.CarrierID]map[string]string
	}{
		"empty code": {
			statuses: []domain.CanonicalStatus{{Code: "  ", Category: domain.CategoryPending}},
		},
		"unknown category": {
			statuses: []domain.CanonicalStatus{{Code: "LOST", Category: "gone"}},
		},
		"declared twice": {
			statuses: []domain.CanonicalStatus{
				{Code: "IN_TRANSIT", Category: domain.CategoryInTransit},
				{Code: " in_transit", Category: domain.CategoryInTransit},
			},
		},
		"alias to unknown code": {
			statuses: []domain.CanonicalStatus{{Code: "IN_TRANSIT", Category: domain.CategoryInTransit}},
			aliases:  map[domain.CarrierID]map[string]string{domain.CarrierDHL: {"TR": "MOVING"}},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(tt.statuses, tt.aliases)
			assert.ErrorIs(t, err, ErrInvalidTable)
		})
	}
}

func TestLookup_AliasesArePerCarrier(t *testing.T) {
	table, err := NewTable(DefaultStatuses(), map[domain.CarrierID]map[string]string{
		domain.CarrierDHL: {"transit": "IN_TRANSIT", "OK": "delivered"},
	})
	require.NoError(t, err)

	got, ok := table.Lookup(domain.CarrierDHL, " Transit ")
	require.True(t, ok)
	assert.Equal(t, "IN_TRANSIT", got.Code)

	got, ok = table.Lookup(domain.CarrierDHL, "ok")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryDelivered, got.Category)

	_, ok = table.Lookup(domain.CarrierUPS, "TRANSIT")
	assert.False(t, ok)
}

func TestNormalize_Known(t *testing.T) {
	n := NewNormalizer(DefaultTable(), zerolog.Nop())

	got := n.Normalize(dhl, "out_for_delivery")

	assert.Equal(t, domain.CanonicalStatus{
		Code:        "OUT_FOR_DELIVERY",
		Description: "Out for delivery",
		Category:    domain.CategoryOutForDelivery,
	}, got)
}

func TestNormalize_UnmappedDegradesToInTransit(t *testing.T) {
	type call struct {
		carrier domain.CarrierID
		code    string
	}
	var calls []call
	n := NewNormalizer(DefaultTable(), zerolog.Nop(), WithUnmappedHook(func(c domain.Carrier, code string) {
		calls = append(calls, call{c.ID, code})
	}))

	got := n.Normalize(dhl, " WH_SCAN ")

	assert.Equal(t, domain.CategoryInTransit, got.Category)
	assert.Equal(t, "WH_SCAN", got.Code)
	assert.Equal(t, "status unrecognized: WH_SCAN", got.Description)
	assert.Equal(t, []call{{domain.CarrierDHL, "WH_SCAN"}}, calls)

	_, ok := n.Lookup(dhl, "WH_SCAN")
	assert.False(t, ok)
	assert.Len(t, calls, 1, "Lookup must not signal")
}

func TestNormalize_UnmappedWithoutHook(t *testing.T) {
	n := NewNormalizer(DefaultTable(), zerolog.Nop())
	assert.Equal(t, domain.CategoryInTransit, n.Normalize(dhl, "???").Category)
}
