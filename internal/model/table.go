package model

// TableStatus classifies a table's current display state.  The status is
// derived from the reservation log and the wall clock on every read; it is
// never stored as authoritative state, so it can never drift from the log.
type TableStatus string

const (
	StatusAvailable TableStatus = "available" // no active or upcoming reservation
	StatusOccupied  TableStatus = "occupied"  // a reservation window is in progress right now
	StatusReserved  TableStatus = "reserved"  // booked later today or on a future date
)

// Table describes one physical seating resource.  The catalog of tables is
// fixed reference data: reservation operations never add, remove or mutate
// tables, they only affect the derived status.
//
// Fields:
//  ID       – stable canonical identifier, unique and immutable.
//  Number   – human-facing table number, unique within the catalog.
//  Capacity – maximum party size the table seats.
//  Zone     – seating area the table belongs to (e.g. terraza, interior).
type Table struct {
	ID       uint64 `json:"id" yaml:"id"`
	Number   uint32 `json:"number" yaml:"number"`
	Capacity uint32 `json:"capacity" yaml:"capacity"`
	Zone     string `json:"zone" yaml:"zone"`
}

// TableView pairs a catalog table with its derived status for display.
type TableView struct {
	Table
	Status TableStatus `json:"status"`
}
