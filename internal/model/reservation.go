package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Reservation states.
const (
    ReservationStatusReserved  = "reserved"
    ReservationStatusCancelled = "cancelled"
)

// Reservation is a seller's claim on one market slot for a sub-interval of
// the owning event.  The slot must belong to the same event.  Bounds are
// minute-truncated and the permitted durations are exactly 1, 7 or 30 days.
// FinalPrice is computed by the pricing engine when left zero; only
// privileged roles may supply it directly.
//
// The IsChecked/LastChecked* fields cache the most recent non-deleted
// ReservationCheck and are recomputed whenever a check is created or
// removed.
type Reservation struct {
    ID            uint64          // reservations.id
    EventID       uint64          // reservations.event_id
    MarketSlotID  uint64          // reservations.market_slot_id
    UserID        uint64          // reservations.user_id
    UsedExtension float64         // reservations.used_extension
    ReservedFrom  time.Time       // reservations.reserved_from
    ReservedTo    time.Time       // reservations.reserved_to
    Status        string          // reservations.status
    Note          *string         // reservations.note (nullable)
    FinalPrice    decimal.Decimal // reservations.final_price
    IsChecked     bool            // reservations.is_checked
    LastCheckedAt *time.Time      // reservations.last_checked_at (nullable)
    LastCheckedBy *uint64         // reservations.last_checked_by (nullable)
    IsDeleted     bool            // reservations.is_deleted
    DeletedAt     *time.Time      // reservations.deleted_at (nullable)
    CreatedAt     time.Time       // reservations.created_at
    UpdatedAt     time.Time       // reservations.updated_at
}
