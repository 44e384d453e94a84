package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/lamesa/reserva/internal/catalog"
	"github.com/lamesa/reserva/internal/model"
	"github.com/lamesa/reserva/internal/queue"
	"github.com/lamesa/reserva/internal/store"
)

// EventPublisher receives a best-effort event after every committed
// mutation.  Publishing failures never fail the booking.
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, ev queue.ReservationEvent) error
}

// Draft is a caller-supplied reservation request.  Either TableID or
// TableLabel selects the table; when TableID is zero the label is resolved
// through the identity mapper.
type Draft struct {
	TableID         uint64          `json:"table_id"`
	TableLabel      string          `json:"table"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	Party           model.PartySize `json:"party"`
	Customer        model.Customer  `json:"customer"`
	Zone            string          `json:"zone"`
	ConsumptionType string          `json:"consumption_type"`
	SpecialRequests string          `json:"special_requests"`
}

// Service owns the reservation log: all mutations go through Create and
// Remove, which re-validate availability against a freshly loaded snapshot
// at commit time.  Reads are served from the client's local view of the
// store, which the synchronization layer keeps current; writes refresh the
// local view synchronously so the originating client never waits for a
// round trip.
//
// Create and Remove are serialized by a process-local mutex, preserving the
// single-threaded client model even though the HTTP layer handles requests
// concurrently.  Contention across processes is resolved by the commit-time
// re-check, not by locking.
type Service struct {
	catalog  *catalog.Catalog
	ids      *catalog.IdentityMapper
	store    store.KeyedStore
	resolver *Resolver
	publish  EventPublisher // may be nil
	now      func() time.Time

	writeMu sync.Mutex

	viewMu sync.RWMutex
	view   []model.Reservation
	loaded bool

	lastID uint64
}

// NewService wires the booking service.  publish may be nil when no broker
// is configured.
func NewService(cat *catalog.Catalog, ids *catalog.IdentityMapper, st store.KeyedStore, resolver *Resolver, publish EventPublisher) *Service {
	if cat == nil || ids == nil || st == nil || resolver == nil {
		panic("nil dependency passed to NewService")
	}
	return &Service{
		catalog:  cat,
		ids:      ids,
		store:    st,
		resolver: resolver,
		publish:  publish,
		now:      time.Now,
	}
}

// loadLog reads the reservation log snapshot straight from the store.  A
// never-written key is an empty log, not an error.
func (s *Service) loadLog(ctx context.Context) ([]model.Reservation, error) {
	raw, err := s.store.Load(ctx, store.KeyReservations)
	if errors.Is(err, store.ErrNotFound) {
		return []model.Reservation{}, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []model.Reservation
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: corrupt reservation snapshot: %v", store.ErrUnavailable, err)
	}
	return entries, nil
}

// saveLog persists the reservation log snapshot, emitting a change signal.
func (s *Service) saveLog(ctx context.Context, entries []model.Reservation) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: marshal reservation snapshot: %v", store.ErrUnavailable, err)
	}
	return s.store.Save(ctx, store.KeyReservations, raw)
}

// Refresh reloads the local view from the store.  The synchronization layer
// calls this on change signals, reconcile ticks and foreground resumes;
// mutations call it implicitly by installing the snapshot they just wrote.
func (s *Service) Refresh(ctx context.Context) error {
	entries, err := s.loadLog(ctx)
	if err != nil {
		return err
	}
	s.setView(entries)
	return nil
}

func (s *Service) setView(entries []model.Reservation) {
	s.viewMu.Lock()
	s.view = entries
	s.loaded = true
	s.viewMu.Unlock()
}

// snapshot returns the local view, loading it on first use.
func (s *Service) snapshot(ctx context.Context) ([]model.Reservation, error) {
	s.viewMu.RLock()
	if s.loaded {
		out := make([]model.Reservation, len(s.view))
		copy(out, s.view)
		s.viewMu.RUnlock()
		return out, nil
	}
	s.viewMu.RUnlock()
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.snapshot(ctx)
}

// nextID assigns reservation ids from the creation timestamp in
// milliseconds, bumped when two creations land in the same millisecond so
// ids stay strictly monotonic within this client.
func (s *Service) nextID() uint64 {
	id := uint64(s.now().UnixMilli())
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Create validates a draft and commits it to the reservation log.
//
// The availability re-check runs against a snapshot loaded fresh from the
// store inside the write path.  This is mandatory even when the caller
// already filtered candidates: it closes the window between "list available"
// and "commit", so two clients racing for one slot end with exactly one
// created reservation and one ConflictError.
func (s *Service) Create(ctx context.Context, draft Draft) (*model.Reservation, error) {
	day, err := time.Parse(model.DateLayout, draft.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidDraft, draft.Date)
	}
	clock, err := time.Parse(model.TimeLayout, draft.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: bad time %q", ErrInvalidDraft, draft.Time)
	}
	// time.Parse admits unpadded values like "9:00" or "2025-6-1"; stored
	// slots are always the zero-padded canonical form.
	draft.Date = day.Format(model.DateLayout)
	draft.Time = clock.Format(model.TimeLayout)
	headcount := draft.Party.Total()
	if headcount == 0 {
		return nil, fmt.Errorf("%w: empty party", ErrInvalidDraft)
	}

	tableID := draft.TableID
	if tableID == 0 {
		if draft.TableLabel == "" {
			return nil, &InvalidReferenceError{Ref: ""}
		}
		id, ok := s.ids.CanonicalID(draft.TableLabel)
		if !ok {
			return nil, &InvalidReferenceError{Ref: draft.TableLabel}
		}
		tableID = id
	}
	table, ok := s.catalog.Get(tableID)
	if !ok {
		ref := draft.TableLabel
		if ref == "" {
			ref = strconv.FormatUint(tableID, 10)
		}
		return nil, &InvalidReferenceError{Ref: ref}
	}
	if headcount > table.Capacity {
		return nil, &CapacityError{TableNumber: table.Number, Capacity: table.Capacity, PartySize: headcount}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.loadLog(ctx)
	if err != nil {
		return nil, err
	}
	if !s.resolver.IsAvailable(table.ID, draft.Date, draft.Time, current) {
		return nil, &ConflictError{TableNumber: table.Number, Date: draft.Date, Time: draft.Time}
	}

	label := draft.TableLabel
	if label == "" {
		label, _ = s.ids.Label(table.ID)
	}
	res := model.Reservation{
		ID:              s.nextID(),
		TableID:         table.ID,
		TableNumber:     table.Number,
		Customer:        draft.Customer,
		Date:            draft.Date,
		Time:            draft.Time,
		Party:           draft.Party,
		Guests:          headcount,
		Status:          model.StatusConfirmed,
		Zone:            draft.Zone,
		TableLabel:      label,
		ConsumptionType: draft.ConsumptionType,
		SpecialRequests: draft.SpecialRequests,
		CreatedAt:       s.now().UTC(),
	}
	updated := append(current, res)
	if err := s.saveLog(ctx, updated); err != nil {
		return nil, err
	}
	s.setView(updated) // self-notification: no round trip for the writer
	s.emit(ctx, queue.ActionCreated, res)
	return &res, nil
}

// Remove cancels a reservation by id.  Removing an id that no longer exists
// returns ErrNotFound, which callers treat as an already-done no-op; the
// store is never left partially written.
func (s *Service) Remove(ctx context.Context, id uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.loadLog(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, res := range current {
		if res.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	removed := current[idx]
	updated := append(current[:idx:idx], current[idx+1:]...)
	if err := s.saveLog(ctx, updated); err != nil {
		return err
	}
	s.setView(updated)
	s.emit(ctx, queue.ActionCancelled, removed)
	return nil
}

// emit publishes a reservation event, best effort.
func (s *Service) emit(ctx context.Context, action string, res model.Reservation) {
	if s.publish == nil {
		return
	}
	ev := queue.ReservationEvent{
		Action:        action,
		ReservationID: res.ID,
		TableID:       res.TableID,
		TableNumber:   res.TableNumber,
		Zone:          res.Zone,
		Date:          res.Date,
		Time:          res.Time,
		Guests:        res.Guests,
		CustomerName:  res.Customer.Name,
		OccurredAt:    s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publish.PublishReservationEvent(ctx, ev); err != nil {
		log.Printf("engine: publish %s event for reservation %d failed: %v", action, res.ID, err)
	}
}

// Reservations returns the local view of the log, newest first.  An optional
// date narrows the listing to one calendar day.
func (s *Service) Reservations(ctx context.Context, date string) ([]model.Reservation, error) {
	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := all
	if date != "" {
		out = out[:0:0]
		for _, res := range all {
			if res.Date == date {
				out = append(out, res)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Reservation returns a single reservation by id.
func (s *Service) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, res := range all {
		if res.ID == id {
			return &res, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// TableViews returns every catalog table with its derived status, in
// catalog order.
func (s *Service) TableViews(ctx context.Context) ([]model.TableView, error) {
	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	tables := s.catalog.Tables()
	out := make([]model.TableView, 0, len(tables))
	for _, t := range tables {
		out = append(out, model.TableView{Table: t, Status: s.resolver.Status(t, all, now)})
	}
	return out, nil
}

// AvailableTables lists tables in the zone that fit the party and are free
// for the slot.  Advisory only: the authoritative gate is the re-check
// inside Create.
func (s *Service) AvailableTables(ctx context.Context, zone string, partySize uint32, date, timeOfDay string) ([]model.Table, error) {
	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.AvailableTables(zone, partySize, date, timeOfDay, all, s.now()), nil
}

// CheckAvailability reports whether the table is free for the slot.  The
// table reference must resolve; the slot must be well formed.
func (s *Service) CheckAvailability(ctx context.Context, tableID uint64, date, timeOfDay string) (bool, error) {
	if _, ok := s.catalog.Get(tableID); !ok {
		return false, &InvalidReferenceError{Ref: strconv.FormatUint(tableID, 10)}
	}
	if !validDate(date) {
		return false, fmt.Errorf("%w: bad date %q", ErrInvalidDraft, date)
	}
	if _, err := minuteOfDay(timeOfDay); err != nil {
		return false, fmt.Errorf("%w: bad time %q", ErrInvalidDraft, timeOfDay)
	}
	all, err := s.snapshot(ctx)
	if err != nil {
		return false, err
	}
	return s.resolver.IsAvailable(tableID, date, timeOfDay, all), nil
}

// Zones exposes the zone registry for the booking wizard.
func (s *Service) Zones() []catalog.Zone { return s.catalog.Zones() }

// SetClock overrides the service clock.  Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }
