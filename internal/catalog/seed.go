package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lamesa/reserva/internal/model"
	"github.com/lamesa/reserva/internal/store"
)

// SyncShared aligns the configured table set with the snapshot shared
// through the store.  The first client to start persists its configured
// tables; every later client adopts the stored set instead of its local
// configuration, so all clients of one store work against one catalog.
// The snapshot is fixed reference data and is never overwritten by a boot.
func SyncShared(ctx context.Context, st store.KeyedStore, cfg Config) (Config, error) {
	raw, err := st.Load(ctx, store.KeyTables)
	if errors.Is(err, store.ErrNotFound) {
		seed, err := json.Marshal(cfg.Tables)
		if err != nil {
			return Config{}, fmt.Errorf("catalog: marshal table snapshot: %w", err)
		}
		if err := st.Save(ctx, store.KeyTables, seed); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	var tables []model.Table
	if err := json.Unmarshal(raw, &tables); err != nil {
		return Config{}, fmt.Errorf("catalog: corrupt table snapshot: %w", err)
	}
	cfg.Tables = tables
	return cfg, nil
}
