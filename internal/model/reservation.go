package model

import "time"

// Date and time-of-day layouts used throughout the engine.  Dates are
// calendar dates local to the restaurant (no time zone component) and times
// are HH:MM at the booking granularity.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// StatusConfirmed is the only reservation lifecycle state the engine stores.
const StatusConfirmed = "confirmed"

// PartySize decomposes a party into age groups.  Infants count toward the
// effective headcount: the stored guest total and the capacity check both use
// the same sum, so they can never disagree.
type PartySize struct {
	Adults   uint32 `json:"adults"`
	Children uint32 `json:"children"`
	Infants  uint32 `json:"infants"`
}

// Total returns the effective headcount used for capacity checks.
func (p PartySize) Total() uint32 { return p.Adults + p.Children + p.Infants }

// Customer holds contact details for the booking party.  The values are
// opaque to the engine; validation is the caller's responsibility.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Reservation records a booking of one table for one party at one date and
// time.  Reservations are created by a successful booking operation and
// removed by an explicit cancellation; they are never updated in place
// (modifications are modelled as remove+create).
//
// Fields:
//  ID              – unique identifier, assigned monotonically at creation.
//  TableID         – canonical id of the booked table.
//  TableNumber     – human-facing number of the booked table.
//  Customer        – contact details of the booking party.
//  Date            – calendar date, YYYY-MM-DD.
//  Time            – time of day, HH:MM.
//  Party           – adult/child/infant breakdown.
//  Guests          – effective headcount (Party.Total at creation).
//  Status          – lifecycle state; always "confirmed" once stored.
//  Zone            – seating area chosen in the wizard (display metadata).
//  TableLabel      – wizard label such as "T1" (display metadata).
//  ConsumptionType – meal type chosen in the wizard (display metadata).
//  SpecialRequests – free-form notes from the customer.
//  CreatedAt       – creation timestamp in UTC.
type Reservation struct {
	ID              uint64    `json:"id"`
	TableID         uint64    `json:"table_id"`
	TableNumber     uint32    `json:"table_number"`
	Customer        Customer  `json:"customer"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Party           PartySize `json:"party"`
	Guests          uint32    `json:"guests"`
	Status          string    `json:"status"`
	Zone            string    `json:"zone,omitempty"`
	TableLabel      string    `json:"table_label,omitempty"`
	ConsumptionType string    `json:"consumption_type,omitempty"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
