package model

import "time"

// ReservationCheck is an audit record of a physical inspection of a
// reservation.  Only admins and checkers may create one.  Every create and
// delete recomputes the cached check status on the parent reservation.
type ReservationCheck struct {
    ID            uint64     // reservation_checks.id
    ReservationID uint64     // reservation_checks.reservation_id
    CheckerID     *uint64    // reservation_checks.checker_id (nullable, kept after checker removal)
    CheckedAt     time.Time  // reservation_checks.checked_at
    IsDeleted     bool       // reservation_checks.is_deleted
    DeletedAt     *time.Time // reservation_checks.deleted_at (nullable)
}
