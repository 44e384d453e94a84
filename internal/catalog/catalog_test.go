package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesDefault(t *testing.T) {
	cat, err := New(Default())
	require.NoError(t, err)
	assert.Len(t, cat.Tables(), 10)
	assert.Len(t, cat.Zones(), 4)
}

func TestTablesAreInCatalogOrder(t *testing.T) {
	cat, err := New(Default())
	require.NoError(t, err)
	tables := cat.Tables()
	for i := 1; i < len(tables); i++ {
		assert.Less(t, tables[i-1].ID, tables[i].ID)
	}
}

func TestNewRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no tables", func(c *Config) { c.Tables = nil }},
		{"duplicate id", func(c *Config) { c.Tables[1].ID = c.Tables[0].ID }},
		{"duplicate number", func(c *Config) { c.Tables[1].Number = c.Tables[0].Number }},
		{"unknown zone", func(c *Config) { c.Tables[0].Zone = "azotea" }},
		{"zero capacity", func(c *Config) { c.Tables[0].Capacity = 0 }},
		{"bad alias target", func(c *Config) { c.ZoneAliases["patio"] = "azotea" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestInZone(t *testing.T) {
	cat, err := New(Default())
	require.NoError(t, err)

	terraza := cat.InZone("terraza")
	require.Len(t, terraza, 2)
	assert.Equal(t, uint64(5), terraza[0].ID)
	assert.Equal(t, uint64(6), terraza[1].ID)

	// Unknown zones yield an empty result, not an error.
	assert.Empty(t, cat.InZone("azotea"))
	assert.Empty(t, cat.InZone(""))
}

func TestZoneAliasNormalization(t *testing.T) {
	cat, err := New(Default())
	require.NoError(t, err)

	assert.Equal(t, "barra", cat.NormalizeZone("patio"))
	assert.Equal(t, "terraza", cat.NormalizeZone("terraza"))

	// The legacy patio zone reaches the barra tables.
	patio := cat.InZone("patio")
	require.Len(t, patio, 2)
	assert.Equal(t, uint64(3), patio[0].ID)
	assert.Equal(t, uint64(4), patio[1].ID)
}

func TestLoadConfig(t *testing.T) {
	const doc = `
zones:
  - id: terraza
    name: Terraza
tables:
  - id: 1
    number: 1
    capacity: 4
    zone: terraza
labels:
  T1: 1
legacy_labels: []
zone_aliases: {}
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cat, err := New(cfg)
	require.NoError(t, err)
	table, ok := cat.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint32(4), table.Capacity)
	assert.Equal(t, "terraza", table.Zone)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
