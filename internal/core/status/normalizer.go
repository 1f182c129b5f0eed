// Package status maps carrier status codes onto the canonical taxonomy.
package status

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

var ErrInvalidTable = errors.New("invalid status table")

// Table is the code -> canonical status mapping, plus per-carrier aliases
// that rename carrier-specific codes to canonical ones (many-to-one).
// A Table is immutable once built.
type Table struct {
	statuses map[string]domain.CanonicalStatus
	aliases  map[domain.CarrierID]map[string]string
}

// NewTable validates and indexes the taxonomy.
func NewTable(statuses []domain.CanonicalStatus, aliases map[domain.CarrierID]map[string]string) (*Table, error) {
	t := &Table{
		statuses: make(map[string]domain.CanonicalStatus, len(statuses)),
		aliases:  make(map[domain.CarrierID]map[string]string, len(aliases)),
	}
	for _, s := range statuses {
		code := normalizeCode(s.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: empty status code", ErrInvalidTable)
		}
		if !s.Category.Valid() {
			return nil, fmt.Errorf("%w: %s: unknown category %q", ErrInvalidTable, code, s.Category)
		}
		if _, dup := t.statuses[code]; dup {
			return nil, fmt.Errorf("%w: %s declared twice", ErrInvalidTable, code)
		}
		s.Code = code
		t.statuses[code] = s
	}
	for carrierID, byCode := range aliases {
		m := make(map[string]string, len(byCode))
		for raw, canonical := range byCode {
			target := normalizeCode(canonical)
			if _, ok := t.statuses[target]; !ok {
				return nil, fmt.Errorf("%w: alias %s/%s points at unknown code %s", ErrInvalidTable, carrierID, raw, canonical)
			}
			m[normalizeCode(raw)] = target
		}
		t.aliases[carrierID] = m
	}
	return t, nil
}

// Len returns the number of canonical codes.
func (t *Table) Len() int { return len(t.statuses) }

// Lookup resolves a raw code for a carrier.
func (t *Table) Lookup(carrier domain.CarrierID, raw string) (domain.CanonicalStatus, bool) {
	code := normalizeCode(raw)
	if alias, ok := t.aliases[carrier][code]; ok {
		code = alias
	}
	s, ok := t.statuses[code]
	return s, ok
}

func normalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// UnmappedFunc is called every time a code falls outside the taxonomy.
type UnmappedFunc func(carrier domain.Carrier, code string)

// Normalizer is safe for concurrent use: it only reads its table.
type Normalizer struct {
	table      *Table
	log        zerolog.Logger
	onUnmapped UnmappedFunc
}

// Option customises a Normalizer.
type Option func(*Normalizer)

// WithUnmappedHook registers the triage signal for unknown codes.
func WithUnmappedHook(fn UnmappedFunc) Option {
	return func(n *Normalizer) { n.onUnmapped = fn }
}

func NewNormalizer(table *Table, log zerolog.Logger, opts ...Option) *Normalizer {
	n := &Normalizer{table: table, log: log}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Lookup resolves a code without signalling when it is unknown.
func (n *Normalizer) Lookup(carrier domain.Carrier, raw string) (domain.CanonicalStatus, bool) {
	return n.table.Lookup(carrier.ID, raw)
}

// Normalize never fails. An unknown code degrades to in_transit with a
// description naming the code, and the unmapped signal fires.
func (n *Normalizer) Normalize(carrier domain.Carrier, raw string) domain.CanonicalStatus {
	if s, ok := n.table.Lookup(carrier.ID, raw); ok {
		return s
	}

	code := strings.TrimSpace(raw)
	n.log.Warn().
		Str("carrier", string(carrier.ID)).
		Str("code", code).
		Msg("unmapped carrier status code")
	if n.onUnmapped != nil {
		n.onUnmapped(carrier, code)
	}
	return domain.CanonicalStatus{
		Code:        code,
		Description: "status unrecognized: " + code,
		Category:    domain.CategoryInTransit,
	}
}

// DefaultStatuses is the built-in taxonomy.
func DefaultStatuses() []domain.CanonicalStatus {
	return []domain.CanonicalStatus{
		{Code: "PENDING", Description: "Awaiting pickup", Category: domain.CategoryPending},
		{Code: "PICKUP_SCHEDULED", Description: "Pickup scheduled", Category: domain.CategoryPending},

		{Code: "PICKED_UP", Description: "Picked up", Category: domain.CategoryInTransit},
		{Code: "IN_TRANSIT", Description: "In transit", Category: domain.CategoryInTransit},
		{Code: "ARRIVED_AT_FACILITY", Description: "Arrived at sorting facility", Category: domain.CategoryInTransit},
		{Code: "DEPARTED_FACILITY", Description: "Departed sorting facility", Category: domain.CategoryInTransit},
		{Code: "CUSTOMS_CLEARANCE", Description: "In customs clearance", Category: domain.CategoryInTransit},
		{Code: "CUSTOMS_CLEARED", Description: "Cleared customs", Category: domain.CategoryInTransit},

		{Code: "OUT_FOR_DELIVERY", Description: "Out for delivery", Category: domain.CategoryOutForDelivery},
		{Code: "DELIVERY_ATTEMPTED", Description: "Delivery attempted", Category: domain.CategoryOutForDelivery},

		{Code: "DELIVERED", Description: "Delivered", Category: domain.CategoryDelivered},
		{Code: "SIGNED_FOR", Description: "Signed for by recipient", Category: domain.CategoryDelivered},

		{Code: "EXCEPTION", Description: "Exception", Category: domain.CategoryException},
		{Code: "DELAYED", Description: "Delayed", Category: domain.CategoryException},
		{Code: "DAMAGED", Description: "Damaged", Category: domain.CategoryException},
		{Code: "LOST", Description: "Lost", Category: domain.CategoryException},

		{Code: "RETURNED", Description: "Returned", Category: domain.CategoryReturned},
		{Code: "RETURN_TO_SENDER", Description: "Returning to sender", Category: domain.CategoryReturned},
	}
}

// DefaultTable builds the built-in taxonomy without carrier aliases.
func DefaultTable() *Table {
	t, err := NewTable(DefaultStatuses(), nil)
	if err != nil {
		panic(err)
	}
	return t
}
