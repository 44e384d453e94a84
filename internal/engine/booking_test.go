package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamesa/reserva/internal/catalog"
	"github.com/lamesa/reserva/internal/model"
	"github.com/lamesa/reserva/internal/queue"
	"github.com/lamesa/reserva/internal/store"
)

// recordingPublisher captures events instead of talking to a broker.
type recordingPublisher struct {
	events []queue.ReservationEvent
}

func (p *recordingPublisher) PublishReservationEvent(_ context.Context, ev queue.ReservationEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func newTestService(t *testing.T, st store.KeyedStore, pub EventPublisher) *Service {
	t.Helper()
	cfg := catalog.Default()
	cat, err := catalog.New(cfg)
	require.NoError(t, err)
	ids := catalog.NewIdentityMapper(cfg.Labels, cfg.LegacyLabels)
	svc := NewService(cat, ids, st, NewResolver(cat, DefaultSeparation), pub)
	svc.SetClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	return svc
}

func draftFor(tableID uint64, date, timeOfDay string, adults uint32) Draft {
	return Draft{
		TableID: tableID,
		Date:    date,
		Time:    timeOfDay,
		Party:   model.PartySize{Adults: adults},
		Customer: model.Customer{
			Name:  "Ana Torres",
			Email: "ana@example.com",
			Phone: "+51 999 111 222",
		},
		Zone: "terraza",
	}
}

func TestCreateHappyPath(t *testing.T) {
	st := store.NewMemoryStore("a")
	pub := &recordingPublisher{}
	svc := newTestService(t, st, pub)
	ctx := context.Background()

	res, err := svc.Create(ctx, draftFor(5, "2025-06-01", "19:00", 2))
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, uint64(5), res.TableID)
	assert.Equal(t, uint32(5), res.TableNumber)
	assert.Equal(t, uint32(2), res.Guests)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.Equal(t, "T1", res.TableLabel) // back-filled from the identity map

	// Committed state is visible through the store, not just the local view.
	raw, err := st.Load(ctx, store.KeyReservations)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ana@example.com")

	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.ActionCreated, pub.events[0].Action)
	assert.Equal(t, uint64(5), pub.events[0].TableID)
}

func TestCreateResolvesWizardLabel(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)

	draft := draftFor(0, "2025-06-01", "19:00", 2)
	draft.TableLabel = "PT1" // legacy label for table 3
	res, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.TableID)
	assert.Equal(t, "PT1", res.TableLabel) // the caller's label is kept as metadata
}

func TestCreateInvalidReference(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)
	ctx := context.Background()

	draft := draftFor(0, "2025-06-01", "19:00", 2)
	draft.TableLabel = "Z9"
	_, err := svc.Create(ctx, draft)
	require.ErrorIs(t, err, ErrInvalidReference)
	var refErr *InvalidReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "Z9", refErr.Ref)

	_, err = svc.Create(ctx, draftFor(99, "2025-06-01", "19:00", 2))
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestCreateCapacityExceeded(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)

	_, err := svc.Create(context.Background(), draftFor(5, "2025-06-01", "19:00", 6))
	require.ErrorIs(t, err, ErrCapacityExceeded)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, uint32(5), capErr.TableNumber)
	assert.Equal(t, uint32(4), capErr.Capacity)
	assert.Equal(t, uint32(6), capErr.PartySize)
}

func TestCreateInfantsCountTowardCapacity(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)

	draft := draftFor(5, "2025-06-01", "19:00", 3)
	draft.Party.Infants = 2 // 3 adults + 2 infants on a table for 4
	_, err := svc.Create(context.Background(), draft)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCreateInvalidDraft(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, draftFor(5, "junio uno", "19:00", 2))
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = svc.Create(ctx, draftFor(5, "2025-06-01", "7pm", 2))
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = svc.Create(ctx, draftFor(5, "2025-06-01", "19:00", 0))
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestCreateCanonicalizesSlot(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)
	ctx := context.Background()

	// Unpadded inputs parse; the stored slot is the canonical form.
	res, err := svc.Create(ctx, draftFor(5, "2025-6-1", "9:00", 2))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", res.Date)
	assert.Equal(t, "09:00", res.Time)

	// At noon the morning window has elapsed; the table is available again,
	// not reserved for the rest of the day.
	views, err := svc.TableViews(ctx)
	require.NoError(t, err)
	for _, v := range views {
		if v.ID == 5 {
			assert.Equal(t, model.StatusAvailable, v.Status)
		}
	}

	// The canonical slot conflicts with its unpadded spelling.
	_, err = svc.Create(ctx, draftFor(5, "2025-06-01", "9:30", 2))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateConflictWithinWindow(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, draftFor(5, "2025-06-01", "19:00", 2))
	require.NoError(t, err)

	// 90 minutes apart: rejected with the slot details.
	_, err = svc.Create(ctx, draftFor(5, "2025-06-01", "20:30", 2))
	require.ErrorIs(t, err, ErrConflict)
	var confErr *ConflictError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, uint32(5), confErr.TableNumber)
	assert.Equal(t, "20:30", confErr.Time)

	// 125 minutes apart: fine.
	_, err = svc.Create(ctx, draftFor(5, "2025-06-01", "21:05", 2))
	assert.NoError(t, err)

	// Same slot on another table: always legal.
	_, err = svc.Create(ctx, draftFor(6, "2025-06-01", "19:00", 2))
	assert.NoError(t, err)
}

func TestCreateRaceOneWinnerOneConflict(t *testing.T) {
	// Two clients of the same persisted store both saw the slot free; the
	// commit-time re-check turns the race into one success and one conflict.
	shared := store.NewMemoryStore("client-a")
	svcA := newTestService(t, shared, nil)
	svcB := newTestService(t, shared.Shared("client-b"), nil)
	ctx := context.Background()

	free, err := svcA.CheckAvailability(ctx, 5, "2025-06-01", "19:00")
	require.NoError(t, err)
	require.True(t, free)
	free, err = svcB.CheckAvailability(ctx, 5, "2025-06-01", "19:00")
	require.NoError(t, err)
	require.True(t, free)

	_, err = svcA.Create(ctx, draftFor(5, "2025-06-01", "19:00", 2))
	require.NoError(t, err)
	_, err = svcB.Create(ctx, draftFor(5, "2025-06-01", "19:00", 2))
	require.ErrorIs(t, err, ErrConflict)

	// Exactly one committed reservation on the shared store.
	require.NoError(t, svcB.Refresh(ctx))
	all, err := svcB.Reservations(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNoDoubleBookingProperty(t *testing.T) {
	// Whatever mix of attempts goes in, committed reservations on one table
	// and date are always separated by at least the window.
	svc := newTestService(t, store.NewMemoryStore("a"), nil)
	ctx := context.Background()

	slots := []string{"12:00", "13:00", "14:00", "14:05", "16:00", "16:30", "18:10", "20:00", "21:55"}
	for _, slot := range slots {
		_, _ = svc.Create(ctx, draftFor(5, "2025-06-02", slot, 2))
	}

	all, err := svc.Reservations(ctx, "2025-06-02")
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			ta, err := time.Parse(model.TimeLayout, a.Time)
			require.NoError(t, err)
			tb, err := time.Parse(model.TimeLayout, b.Time)
			require.NoError(t, err)
			diff := ta.Sub(tb)
			if diff < 0 {
				diff = -diff
			}
			assert.GreaterOrEqual(t, diff, DefaultSeparation, "%s vs %s", a.Time, b.Time)
		}
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	st := store.NewMemoryStore("a")
	pub := &recordingPublisher{}
	svc := newTestService(t, st, pub)
	ctx := context.Background()

	res, err := svc.Create(ctx, draftFor(5, "2025-06-01", "19:00", 2))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, res.ID))
	err = svc.Remove(ctx, res.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The second removal corrupted nothing: the log is empty and usable.
	all, err := svc.Reservations(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = svc.Create(ctx, draftFor(5, "2025-06-01", "19:00", 2))
	assert.NoError(t, err)

	require.Len(t, pub.events, 3)
	assert.Equal(t, queue.ActionCancelled, pub.events[1].Action)
}

func TestIDsAreMonotonic(t *testing.T) {
	// The clock is frozen, so consecutive creations exercise the
	// same-millisecond bump.
	svc := newTestService(t, store.NewMemoryStore("a"), nil)
	ctx := context.Background()

	var last uint64
	for i, slot := range []string{"12:00", "15:00", "18:00"} {
		res, err := svc.Create(ctx, draftFor(5, "2025-06-03", slot, 2))
		require.NoError(t, err)
		if i > 0 {
			assert.Greater(t, res.ID, last)
		}
		last = res.ID
	}
}

func TestReservationsNewestFirstAndDateFilter(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, draftFor(5, "2025-06-01", "19:00", 2))
	require.NoError(t, err)
	second, err := svc.Create(ctx, draftFor(6, "2025-06-02", "20:00", 2))
	require.NoError(t, err)

	all, err := svc.Reservations(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	day, err := svc.Reservations(ctx, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, second.ID, day[0].ID)
}

func TestTableViewsDeriveStatuses(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore("a"), nil)
	ctx := context.Background()

	// Clock is 12:00; 11:30 is in progress, 19:00 is later today.
	_, err := svc.Create(ctx, draftFor(5, "2025-06-01", "11:30", 2))
	require.NoError(t, err)
	_, err = svc.Create(ctx, draftFor(6, "2025-06-01", "19:00", 2))
	require.NoError(t, err)

	views, err := svc.TableViews(ctx)
	require.NoError(t, err)
	require.Len(t, views, 10)
	byID := make(map[uint64]model.TableStatus)
	for _, v := range views {
		byID[v.ID] = v.Status
	}
	assert.Equal(t, model.StatusOccupied, byID[5])
	assert.Equal(t, model.StatusReserved, byID[6])
	assert.Equal(t, model.StatusAvailable, byID[1])
}

// annotatingStore decorates errors the way a backend adding context would.
type annotatingStore struct {
	store.KeyedStore
}

func (s annotatingStore) Load(ctx context.Context, key string) ([]byte, error) {
	v, err := s.KeyedStore.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return v, nil
}

func TestCreateTreatsWrappedNotFoundAsEmptyLog(t *testing.T) {
	// A never-written log behind a store that wraps its sentinels still
	// reads as empty, not as a failure.
	svc := newTestService(t, annotatingStore{store.NewMemoryStore("a")}, nil)
	res, err := svc.Create(context.Background(), draftFor(5, "2025-06-01", "19:00", 2))
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestRefreshPicksUpForeignWrites(t *testing.T) {
	// Client B's commit becomes visible to client A after a refresh, the
	// path the synchronization layer drives.
	shared := store.NewMemoryStore("client-a")
	svcA := newTestService(t, shared, nil)
	svcB := newTestService(t, shared.Shared("client-b"), nil)
	ctx := context.Background()

	all, err := svcA.Reservations(ctx, "")
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = svcB.Create(ctx, draftFor(5, "2025-06-01", "19:00", 2))
	require.NoError(t, err)

	require.NoError(t, svcA.Refresh(ctx))
	all, err = svcA.Reservations(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
