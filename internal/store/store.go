// Package store provides the shared durable keyed storage the engine
// persists into.  Two logical keys are used: the table-catalog snapshot and
// the reservation-log snapshot.  Each key holds one JSON document and every
// save emits a change signal observable by other clients.  Delivery of
// change signals is best-effort and at-least-once; consumers must tolerate
// duplicate or missed signals and fall back to periodic resynchronization.
package store

import "context"

// Logical keys shared by every client of the store.
const (
	KeyTables       = "tables"
	KeyReservations = "reservations"
)

// Change describes a committed write to one key.  Origin identifies the
// client that performed the write so that a client can skip signals for its
// own mutations (it already refreshed synchronously after committing).
type Change struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// KeyedStore is the engine's only I/O dependency.  Saves are last-writer-wins
// at whole-key granularity; there is no field-level merging and no multi-key
// transaction.
type KeyedStore interface {
	// Load returns the current value of key, or ErrNotFound when the key has
	// never been written.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the value of key and emits a change signal carrying this
	// client's origin id.
	Save(ctx context.Context, key string, value []byte) error
	// Watch returns a channel of change signals from all clients, including
	// this one.  The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan Change, error)
	// Close releases any underlying connections.
	Close() error
}
