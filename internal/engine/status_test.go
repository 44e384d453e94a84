package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lamesa/reserva/internal/model"
)

var statusTable = model.Table{ID: 5, Number: 5, Capacity: 4, Zone: "terraza"}

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
}

func TestDeriveStatusNoReservations(t *testing.T) {
	got := DeriveStatus(statusTable, nil, at(19, 30), DefaultSeparation)
	assert.Equal(t, model.StatusAvailable, got)
}

func TestDeriveStatusOccupiedDuringWindow(t *testing.T) {
	log := []model.Reservation{booking(5, "2025-06-01", "19:00")}

	// 30 minutes into the 120-minute window.
	assert.Equal(t, model.StatusOccupied, DeriveStatus(statusTable, log, at(19, 30), DefaultSeparation))
	// A reservation starting right now is already in progress.
	assert.Equal(t, model.StatusOccupied, DeriveStatus(statusTable, log, at(19, 0), DefaultSeparation))
	// Window elapsed, nothing later: back to available.
	assert.Equal(t, model.StatusAvailable, DeriveStatus(statusTable, log, at(21, 5), DefaultSeparation))
	// The boundary is open: exactly 120 minutes later is no longer occupied.
	assert.Equal(t, model.StatusAvailable, DeriveStatus(statusTable, log, at(21, 0), DefaultSeparation))
}

func TestDeriveStatusFutureSameDayIsReservedNotOccupied(t *testing.T) {
	// A booking later today lies outside the in-progress window even when it
	// is less than the window away from now.
	log := []model.Reservation{booking(5, "2025-06-01", "19:00")}
	assert.Equal(t, model.StatusReserved, DeriveStatus(statusTable, log, at(18, 0), DefaultSeparation))
	assert.Equal(t, model.StatusReserved, DeriveStatus(statusTable, log, at(18, 59), DefaultSeparation))
}

func TestDeriveStatusFutureDateIsReserved(t *testing.T) {
	log := []model.Reservation{booking(5, "2025-06-02", "19:00")}
	assert.Equal(t, model.StatusReserved, DeriveStatus(statusTable, log, at(19, 30), DefaultSeparation))
}

func TestDeriveStatusPastDateIsAvailable(t *testing.T) {
	log := []model.Reservation{booking(5, "2025-05-31", "19:00")}
	assert.Equal(t, model.StatusAvailable, DeriveStatus(statusTable, log, at(19, 30), DefaultSeparation))
}

func TestDeriveStatusOccupiedDominatesReserved(t *testing.T) {
	// One booking in progress, another later today: the stronger state wins.
	log := []model.Reservation{
		booking(5, "2025-06-01", "19:00"),
		booking(5, "2025-06-01", "21:30"),
	}
	assert.Equal(t, model.StatusOccupied, DeriveStatus(statusTable, log, at(19, 30), DefaultSeparation))
}

func TestDeriveStatusIgnoresOtherTables(t *testing.T) {
	log := []model.Reservation{booking(6, "2025-06-01", "19:00")}
	assert.Equal(t, model.StatusAvailable, DeriveStatus(statusTable, log, at(19, 30), DefaultSeparation))
}

func TestDeriveStatusUnpaddedStoredTime(t *testing.T) {
	// Stored times may lack zero padding; the comparisons are numeric, so a
	// morning booking must not shadow the whole afternoon.
	log := []model.Reservation{booking(5, "2025-06-01", "9:00")}
	assert.Equal(t, model.StatusReserved, DeriveStatus(statusTable, log, at(8, 0), DefaultSeparation))
	assert.Equal(t, model.StatusOccupied, DeriveStatus(statusTable, log, at(9, 30), DefaultSeparation))
	assert.Equal(t, model.StatusAvailable, DeriveStatus(statusTable, log, at(12, 0), DefaultSeparation))
}

func TestDeriveStatusNeverAvailableInsideActiveWindow(t *testing.T) {
	// Sweep the whole window: the table must never report available while a
	// same-day reservation is in progress.
	log := []model.Reservation{booking(5, "2025-06-01", "19:00")}
	for m := 0; m < 120; m += 7 {
		now := at(19, 0).Add(time.Duration(m) * time.Minute)
		assert.Equal(t, model.StatusOccupied, DeriveStatus(statusTable, log, now, DefaultSeparation), "minute %d", m)
	}
}
