// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

// Queue and action names for reservation lifecycle events.
const (
	ReservationQueueName = "reservation.events"

	ActionCreated   = "created"
	ActionCancelled = "cancelled"
)

// ReservationEvent is published after a reservation is committed or
// cancelled.  It carries enough information for downstream consumers to log,
// notify or feed analytics without reading the shared store.
type ReservationEvent struct {
	Action        string `json:"action"`
	ReservationID uint64 `json:"reservation_id"`
	TableID       uint64 `json:"table_id"`
	TableNumber   uint32 `json:"table_number"`
	Zone          string `json:"zone,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Guests        uint32 `json:"guests"`
	CustomerName  string `json:"customer_name"`
	OccurredAt    string `json:"occurred_at"`
}
