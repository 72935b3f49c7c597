package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Order states.
const (
    OrderStatusPending   = "pending"
    OrderStatusPayed     = "payed"
    OrderStatusCancelled = "cancelled"
)

// Order is the payment wrapper for exactly one reservation.  Its user must
// match the reservation's user and a reservation may have at most one
// non-deleted order.  PriceToPay mirrors the reservation's final price.
// PayedAt is required when the status is "payed" and forbidden otherwise;
// the pending→payed transition fills it automatically when the client does
// not supply one.  Order status mutations mirror back onto the reservation:
// a cancelled order cancels its reservation, anything else keeps it
// reserved.
type Order struct {
    ID            uint64          // orders.id
    OrderNumber   string          // orders.order_number (uuid, printed on payment notices)
    UserID        uint64          // orders.user_id
    ReservationID uint64          // orders.reservation_id
    Status        string          // orders.status
    Note          *string         // orders.note (nullable)
    PriceToPay    decimal.Decimal // orders.price_to_pay
    PayedAt       *time.Time      // orders.payed_at (nullable)
    IsDeleted     bool            // orders.is_deleted
    DeletedAt     *time.Time      // orders.deleted_at (nullable)
    CreatedAt     time.Time       // orders.created_at
    UpdatedAt     time.Time       // orders.updated_at
}
