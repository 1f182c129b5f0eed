package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/tracking-system/internal/core/carrier"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/status"
)

func TestDefault_MatchesBuiltins(t *testing.T) {
	loaded, err := Default()
	require.NoError(t, err)

	assert.Equal(t, carrier.DefaultRules(), loaded.Registry.Rules())
	assert.Equal(t, len(status.DefaultStatuses()), loaded.Table.Len())

	cases := map[string]domain.CarrierID{
		"BD123456":          domain.CarrierNational,
		"DHL123456789":      domain.CarrierDHL,
		"1Z999AA1234567890": domain.CarrierUPS,
		"123456789012":      domain.CarrierFedEx,
		"XYZ":               domain.CarrierUnknown,
	}
	for tn, want := range cases {
		assert.Equal(t, want, loaded.Registry.Detect(tn).ID, tn)
	}
}

func TestDefault_Aliases(t *testing.T) {
	loaded, err := Default()
	require.NoError(t, err)

	s, ok := loaded.Table.Lookup(domain.CarrierDHL, "wc")
	require.True(t, ok)
	assert.Equal(t, "OUT_FOR_DELIVERY", s.Code)
	assert.Equal(t, domain.CategoryOutForDelivery, s.Category)

	// aliases are per carrier
	_, ok = loaded.Table.Lookup(domain.CarrierNational, "WC")
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"overlapping carriers": {
			doc: `
carriers:
  - {id: a, name: A, scope: national, prefix: BD, charset: digits, min_len: 6, max_len: 6}
  - {id: b, name: B, scope: national, prefix: B, charset: alnum, min_len: 7, max_len: 7}
statuses:
  - {code: PENDING, description: p, category: pending}
`,
			want: carrier.ErrOverlappingRule,
		},
		"unknown category": {
			doc: `
carriers:
  - {id: a, name: A, scope: national, prefix: BD, charset: digits, min_len: 6, max_len: 6}
statuses:
  - {code: PENDING, description: p, category: lost_in_space}
`,
			want: status.ErrInvalidTable,
		},
		"alias to missing code": {
			doc: `
carriers:
  - {id: a, name: A, scope: national, prefix: BD, charset: digits, min_len: 6, max_len: 6}
statuses:
  - {code: PENDING, description: p, category: pending}
aliases:
  a: {X: NOPE}
`,
			want: status.ErrInvalidTable,
		},
		"aliases for unknown carrier": {
			doc: `
carriers:
  - {id: a, name: A, scope: national, prefix: BD, charset: digits, min_len: 6, max_len: 6}
statuses:
  - {code: PENDING, description: p, category: pending}
aliases:
  zz: {X: PENDING}
`,
			want: status.ErrInvalidTable,
		},
		"no carriers": {
			doc:  "statuses: []\n",
			want: carrier.ErrInvalidRule,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
carriers:
  - {id: national, name: Local, scope: national, prefix: LC, charset: digits, min_len: 4, max_len: 4}
statuses:
  - {code: DELIVERED, description: Done, category: delivered}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Local", loaded.Registry.Detect("lc1234").Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
