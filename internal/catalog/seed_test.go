package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamesa/reserva/internal/store"
)

func TestSyncSharedSeedsFirstClient(t *testing.T) {
	st := store.NewMemoryStore("client-a")
	ctx := context.Background()

	cfg, err := SyncShared(ctx, st, Default())
	require.NoError(t, err)
	assert.Len(t, cfg.Tables, 10)

	raw, err := st.Load(ctx, store.KeyTables)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"zone":"terraza"`)
}

func TestSyncSharedAdoptsStoredSnapshot(t *testing.T) {
	st := store.NewMemoryStore("client-a")
	ctx := context.Background()

	_, err := SyncShared(ctx, st, Default())
	require.NoError(t, err)

	// A later client whose local configuration drifted adopts the stored
	// table set; its own labels and zones still apply.
	drifted := Default()
	drifted.Tables = drifted.Tables[:3]
	cfg, err := SyncShared(ctx, st.Shared("client-b"), drifted)
	require.NoError(t, err)
	assert.Len(t, cfg.Tables, 10)

	// The snapshot itself was not rewritten by the second boot.
	raw, err := st.Load(ctx, store.KeyTables)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":10`)
}

func TestSyncSharedRejectsCorruptSnapshot(t *testing.T) {
	st := store.NewMemoryStore("client-a")
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, store.KeyTables, []byte(`{`)))

	_, err := SyncShared(ctx, st, Default())
	assert.Error(t, err)
}
