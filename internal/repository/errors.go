// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a record owned by someone
// else, while ErrConflict signals that an operation cannot proceed
// due to existing dependent records (e.g. a second order for the same
// reservation).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// record they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as creating a second order for a reservation
// that already has one. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")

// Per-entity not-found sentinels. Soft-deleted rows count as not found
// for every caller going through the default (active-only) queries.
var (
    ErrUserNotFound        = errors.New("user not found")
    ErrSquareNotFound      = errors.New("square not found")
    ErrEventNotFound       = errors.New("event not found")
    ErrSlotNotFound        = errors.New("market slot not found")
    ErrReservationNotFound = errors.New("reservation not found")
    ErrOrderNotFound       = errors.New("order not found")
    ErrCheckNotFound       = errors.New("reservation check not found")
    ErrProductNotFound     = errors.New("product not found")
)

// ErrNoChange indicates the UPDATE attempted to set fields equal to
// current values.
var ErrNoChange = errors.New("no change")
