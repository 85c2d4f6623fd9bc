package notifications

import (
	"time"
)

// EventType identifies a lifecycle event on the reservation/order flow.
type EventType string

const (
	EventReservationCreated  EventType = "reservation.created"
	EventReservationReleased EventType = "reservation.released"
	EventOrderConfirmed      EventType = "order.confirmed"
)

// LifecycleEvent is the message published for every reservation/order
// transition. SessionID doubles as the partition key so that all events of
// one checkout land on the same partition in order.
type LifecycleEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	SessionID  string    `json:"session_id,omitempty"`
	EventID    string    `json:"event_id,omitempty"`
	OrderID    string    `json:"order_id,omitempty"`
	OrderRef   string    `json:"order_ref,omitempty"`
	SeatIDs    []string  `json:"seat_ids,omitempty"`
}

// PartitionKey routes all events of one checkout session to one partition.
func (e *LifecycleEvent) PartitionKey() string {
	if e.SessionID != "" {
		return e.SessionID
	}
	return e.ID
}
