// Package syncer keeps one client's local view of the shared store current.
// Three propagation paths feed it: change signals from the store (other
// clients' writes), a fixed reconciliation interval as a fallback against
// missed or coalesced signals, and an explicit resume trigger for when the
// client regains foreground focus.  The writer itself refreshes
// synchronously after committing, so signals carrying this client's own
// origin id are skipped.
package syncer

import (
	"context"
	"log"
	"time"

	"github.com/lamesa/reserva/internal/store"
)

// DefaultReconcileInterval is the fallback resynchronization period.
const DefaultReconcileInterval = 30 * time.Second

// Refresher is the piece of client state to resynchronize, typically the
// booking service's local view of the reservation log.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Synchronizer drives a Refresher from store change signals, a reconcile
// ticker and resume triggers.  Refresh failures are logged and retried on
// the next trigger; delivery is best effort by design.
type Synchronizer struct {
	clientID string
	store    store.KeyedStore
	target   Refresher
	interval time.Duration
	resume   chan struct{}
}

// New builds a Synchronizer.  clientID must match the origin id the store
// was constructed with, so self-originated signals can be recognized.  A
// non-positive interval falls back to DefaultReconcileInterval.
func New(st store.KeyedStore, target Refresher, clientID string, interval time.Duration) *Synchronizer {
	if st == nil || target == nil {
		panic("nil dependency passed to syncer.New")
	}
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	return &Synchronizer{
		clientID: clientID,
		store:    st,
		target:   target,
		interval: interval,
		resume:   make(chan struct{}, 1),
	}
}

// Resume requests an immediate refresh, e.g. when the client regains
// foreground focus.  Non-blocking; a pending request is enough.
func (s *Synchronizer) Resume() {
	select {
	case s.resume <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled, refreshing the target on every
// trigger.  A change signal for a key we do not mirror is ignored.
func (s *Synchronizer) Run(ctx context.Context) error {
	changes, err := s.store.Watch(ctx)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch, ok := <-changes:
			if !ok {
				// Watch closed (store shutting down); the ticker keeps
				// reconciliation alive.
				changes = nil
				continue
			}
			if ch.Origin == s.clientID {
				continue // we already refreshed synchronously after our write
			}
			if ch.Key != store.KeyReservations && ch.Key != store.KeyTables {
				continue
			}
			s.refresh(ctx)
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.resume:
			s.refresh(ctx)
		}
	}
}

func (s *Synchronizer) refresh(ctx context.Context) {
	if err := s.target.Refresh(ctx); err != nil {
		log.Printf("syncer: refresh failed: %v", err)
	}
}
