// Package engine implements the reservation availability and table-state
// core: conflict detection over the minimum-separation window, zone and
// capacity aware table matching, derived table status, and the booking
// service that mutates the shared reservation log.
package engine

import (
	"time"

	"github.com/lamesa/reserva/internal/catalog"
	"github.com/lamesa/reserva/internal/model"
)

// DefaultSeparation is the minimum interval between two bookings of the same
// table on the same date.  It is a policy constant of the restaurant, kept
// configurable on the Resolver rather than varying by zone or party.
const DefaultSeparation = 120 * time.Minute

// minuteOfDay parses an HH:MM string into minutes since midnight.
func minuteOfDay(hhmm string) (int, error) {
	t, err := time.Parse(model.TimeLayout, hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// validDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func validDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

// Resolver answers availability questions against the fixed catalog and a
// reservation log supplied by the caller.  It holds no mutable state and is
// safe for concurrent use.
type Resolver struct {
	catalog    *catalog.Catalog
	separation time.Duration
}

// NewResolver builds a Resolver.  A non-positive separation falls back to
// DefaultSeparation.
func NewResolver(cat *catalog.Catalog, separation time.Duration) *Resolver {
	if cat == nil {
		panic("nil catalog passed to NewResolver")
	}
	if separation <= 0 {
		separation = DefaultSeparation
	}
	return &Resolver{catalog: cat, separation: separation}
}

// Separation returns the configured minimum-separation window.
func (r *Resolver) Separation() time.Duration { return r.separation }

// IsAvailable reports whether booking the table at the given date and time
// would conflict with an existing reservation.  Two reservations on the same
// table and date conflict when their times are strictly less than the
// separation window apart; the same time is always a conflict.  Reservations
// on a different date never conflict.  A stored reservation whose time does
// not parse is skipped rather than treated as blocking.
func (r *Resolver) IsAvailable(tableID uint64, date, timeOfDay string, reservations []model.Reservation) bool {
	requested, err := minuteOfDay(timeOfDay)
	if err != nil {
		return false
	}
	window := int(r.separation.Minutes())
	for _, res := range reservations {
		if res.TableID != tableID || res.Date != date {
			continue
		}
		existing, err := minuteOfDay(res.Time)
		if err != nil {
			continue
		}
		diff := requested - existing
		if diff < 0 {
			diff = -diff
		}
		if diff < window {
			return false
		}
	}
	return true
}

// AvailableTables filters the catalog to tables in the given zone that seat
// the party and are free for the requested slot.  When either date or time
// is absent the slot check degrades to the table's derived status being
// available (a coarse filter, since no specific slot was chosen yet).
// Results come back in catalog order; an unknown zone yields an empty slice.
func (r *Resolver) AvailableTables(zone string, partySize uint32, date, timeOfDay string, reservations []model.Reservation, now time.Time) []model.Table {
	candidates := r.catalog.InZone(zone)
	out := make([]model.Table, 0, len(candidates))
	for _, t := range candidates {
		if t.Capacity < partySize {
			continue
		}
		if date != "" && timeOfDay != "" {
			if r.IsAvailable(t.ID, date, timeOfDay, reservations) {
				out = append(out, t)
			}
			continue
		}
		if r.Status(t, reservations, now) == model.StatusAvailable {
			out = append(out, t)
		}
	}
	return out
}

// Status derives the table's display status using the resolver's separation
// window as the occupancy window.
func (r *Resolver) Status(table model.Table, reservations []model.Reservation, now time.Time) model.TableStatus {
	return DeriveStatus(table, reservations, now, r.separation)
}
