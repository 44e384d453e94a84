// Domain error taxonomy for the booking engine.  Every failure mode of
// Create/Remove is returned as a value, never raised as a panic, and each
// detailed error type carries enough structure (table number, capacity,
// requested slot) for the UI to render a specific, actionable message.
// Handlers match with errors.Is against the sentinels and unpack details
// with errors.As.
package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidDraft is returned when a reservation draft is malformed: an
// unparseable date or time, or an empty party.  Callers should fix the
// request; no store state was touched.
var ErrInvalidDraft = errors.New("invalid reservation draft")

// ErrInvalidReference is returned when a table id or wizard label does not
// resolve to a known table.  Always recoverable; the caller should re-prompt
// for a valid selection.
var ErrInvalidReference = errors.New("invalid table reference")

// ErrCapacityExceeded is returned when the party does not fit the selected
// table.  Distinct from a scheduling conflict so the caller can offer a
// larger table rather than another time.
var ErrCapacityExceeded = errors.New("table capacity exceeded")

// ErrConflict is returned when the requested slot overlaps an existing
// booking on the same table within the minimum-separation window.
var ErrConflict = errors.New("reservation conflict")

// ErrNotFound is returned by Remove when the reservation no longer exists,
// typically because another client already cancelled it.  Callers treat it
// as a no-op success.
var ErrNotFound = errors.New("reservation not found")

// InvalidReferenceError reports the unresolvable reference.
type InvalidReferenceError struct {
	Ref string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid table reference %q", e.Ref)
}

func (e *InvalidReferenceError) Unwrap() error { return ErrInvalidReference }

// CapacityError reports which table was too small for which party.
type CapacityError struct {
	TableNumber uint32
	Capacity    uint32
	PartySize   uint32
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("table %d seats %d, party of %d does not fit", e.TableNumber, e.Capacity, e.PartySize)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// ConflictError reports the table and slot that lost the booking race.
type ConflictError struct {
	TableNumber uint32
	Date        string
	Time        string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("table %d already booked around %s %s", e.TableNumber, e.Date, e.Time)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
