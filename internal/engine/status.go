package engine

import (
	"time"

	"github.com/lamesa/reserva/internal/model"
)

// DeriveStatus computes a table's display status from the reservation log
// and the current wall clock.  It is a pure function recomputed on every
// read and never cached, so derived state cannot drift from the log.
//
// A table is occupied when a reservation dated today started within the
// window before now (the booking is presently in progress).  Failing that it
// is reserved when a reservation dated today is at or after the current time
// or any reservation exists on a future date.  Otherwise it is available.
// Occupied dominates reserved, which dominates available; a table matching
// several reservations reports only the strongest state.
func DeriveStatus(table model.Table, reservations []model.Reservation, now time.Time, window time.Duration) model.TableStatus {
	today := now.Format(model.DateLayout)
	nowMin := now.Hour()*60 + now.Minute()
	windowMin := int(window.Minutes())

	reserved := false
	for _, res := range reservations {
		if res.TableID != table.ID {
			continue
		}
		if res.Date > today {
			reserved = true
			continue
		}
		if res.Date != today {
			continue
		}
		start, err := minuteOfDay(res.Time)
		if err != nil {
			continue
		}
		if start <= nowMin && nowMin-start < windowMin {
			return model.StatusOccupied
		}
		if start >= nowMin {
			reserved = true
		}
	}
	if reserved {
		return model.StatusReserved
	}
	return model.StatusAvailable
}
