// Package queue defines message payloads exchanged over the message broker.
package queue

// Notification kinds published to the reservation.notifications queue.
const (
    KindReservationCreated   = "reservation_created"
    KindReservationCancelled = "reservation_cancelled"
    KindOrderPaid            = "order_paid"
)

// NotificationEvent is published whenever a reservation or its order
// changes in a way vendors should hear about. It carries enough
// denormalized context for downstream consumers to log or send mail
// without querying the primary database.
type NotificationEvent struct {
    Kind          string `json:"kind"`
    ReservationID uint64 `json:"reservation_id"`
    OrderID       uint64 `json:"order_id,omitempty"`
    OrderNumber   string `json:"order_number,omitempty"`
    UserID        uint64 `json:"user_id"`
    EventID       uint64 `json:"event_id"`
    EventName     string `json:"event_name"`
    SquareName    string `json:"square_name,omitempty"`
    SlotNumber    uint32 `json:"slot_number"`
    ReservedFrom  string `json:"reserved_from"`
    ReservedTo    string `json:"reserved_to"`
    Price         string `json:"price"`
    OccurredAt    string `json:"occurred_at"`
}
