package booking

import (
    "time"

    "github.com/shopspring/decimal"
)

// MaxActiveReservations is the per-user quota of concurrently active
// (non-cancelled) reservations.  Creation is rejected once a user already
// holds this many.
const MaxActiveReservations = 5

// ReservationCandidate is the mutable part of a reservation being created
// or updated.  Validate truncates the bounds to minute resolution in place
// and fills FinalPrice when it was left zero.
type ReservationCandidate struct {
    ID            uint64 // zero for creation; used to exclude self from overlap checks
    EventID       uint64
    MarketSlotID  uint64
    UserID        uint64
    ReservedFrom  time.Time
    ReservedTo    time.Time
    UsedExtension float64
    Status        string
    FinalPrice    decimal.Decimal
}

// ReservationContext carries everything the rules need to judge a
// candidate.  Repositories assemble it inside the same transaction that
// holds the slot row lock, so the sibling set cannot change under the
// check.
type ReservationContext struct {
    EventStart             time.Time
    EventEnd               time.Time
    EventRate              decimal.Decimal
    SlotEventID            uint64
    SlotStatus             string
    SlotBaseSize           float64
    SlotAvailableExtension float64
    SlotRate               decimal.Decimal
    Siblings               []Interval // active reservations on the same slot, candidate included if updating
    ActiveUserReservations int        // user's active reservations, excluding the candidate itself
    ActorPrivileged        bool       // admin or city clerk
}

// ValidateReservation enforces every reservation invariant and derives the
// final price.  All checks run before any persistence; the returned error
// is either a field-keyed ValidationError, ErrBlockedSlot,
// ErrFinalPriceForbidden or ErrPriceTooHigh.
func ValidateReservation(cand *ReservationCandidate, rctx ReservationContext) error {
    errs := ValidationError{}

    if cand.ReservedFrom.IsZero() || cand.ReservedTo.IsZero() {
        errs["reserved_from"] = "reservation bounds are required"
        return errs
    }
    cand.ReservedFrom = TruncateToMinute(cand.ReservedFrom)
    cand.ReservedTo = TruncateToMinute(cand.ReservedTo)

    if !cand.ReservedFrom.Before(cand.ReservedTo) {
        errs["reserved_from"] = "start must be before end"
        return errs
    }
    if !AllowedDuration(cand.ReservedFrom, cand.ReservedTo) {
        errs["reserved_to"] = "a slot can be reserved for a day (1), a week (7) or a month (30 days) only"
    }
    if cand.ReservedFrom.Before(rctx.EventStart) || cand.ReservedTo.After(rctx.EventEnd) {
        errs["reserved_from"] = "reservation must fall within the event window"
    }
    if cand.MarketSlotID == 0 {
        errs["market_slot"] = "reservation requires a market slot"
        return errs
    }
    if rctx.SlotEventID != cand.EventID {
        errs["market_slot"] = "market slot belongs to a different event"
    }
    if cand.UsedExtension < 0 {
        errs["used_extension"] = "extension cannot be negative"
    } else if cand.UsedExtension > rctx.SlotAvailableExtension {
        errs["used_extension"] = "requested extension exceeds what the slot offers"
    }
    if cand.UserID == 0 {
        errs["user"] = "reservation requires a user"
        return errs
    }
    if cand.Status != "" && cand.Status != "reserved" && cand.Status != "cancelled" {
        errs["status"] = "unknown reservation status"
    }
    if HasOverlap(Interval{ID: cand.ID, From: cand.ReservedFrom, To: cand.ReservedTo}, rctx.Siblings) {
        errs["reserved_from"] = "interval overlaps another reservation on this slot"
    }
    if rctx.ActiveUserReservations >= MaxActiveReservations {
        errs["user"] = "user already holds the maximum of 5 active reservations"
    }
    if len(errs) > 0 {
        return errs
    }

    if rctx.SlotStatus == "blocked" && !rctx.ActorPrivileged {
        return ErrBlockedSlot
    }

    if cand.FinalPrice.IsZero() {
        price, err := SlotAreaPrice(rctx.SlotRate, rctx.EventRate, rctx.SlotBaseSize, cand.UsedExtension, cand.ReservedFrom, cand.ReservedTo)
        if err != nil {
            return err
        }
        cand.FinalPrice = price
        return nil
    }
    if !rctx.ActorPrivileged {
        return ErrFinalPriceForbidden
    }
    if cand.FinalPrice.IsNegative() {
        return ValidationError{"final_price": "price cannot be negative"}
    }
    if cand.FinalPrice.GreaterThan(MaxFinalPrice) {
        return ErrPriceTooHigh
    }
    return nil
}

// ValidateEventWindow checks an event's bounds and returns the truncated
// pair.  Overlap against sibling events on the same square uses the same
// half-open rule as reservations.
func ValidateEventWindow(start, end time.Time, eventID uint64, siblings []Interval) (time.Time, time.Time, error) {
    errs := ValidationError{}
    if start.IsZero() || end.IsZero() {
        errs["start"] = "start and end are required"
        return start, end, errs
    }
    start = TruncateToMinute(start)
    end = TruncateToMinute(end)
    if !start.Before(end) {
        errs["start"] = "start must be before end"
        return start, end, errs
    }
    if HasOverlap(Interval{ID: eventID, From: start, To: end}, siblings) {
        errs["start"] = "another event already occupies this square in that interval"
        return start, end, errs
    }
    return start, end, nil
}

// ValidateSquareGeometry rejects non-positive spatial parameters.
func ValidateSquareGeometry(width, height, gridRows, gridCols, cellSize uint32) error {
    errs := ValidationError{}
    if width == 0 {
        errs["width"] = "width must be greater than zero"
    }
    if height == 0 {
        errs["height"] = "height must be greater than zero"
    }
    if gridRows == 0 {
        errs["grid_rows"] = "grid rows must be greater than zero"
    }
    if gridCols == 0 {
        errs["grid_cols"] = "grid cols must be greater than zero"
    }
    if cellSize == 0 {
        errs["cellsize"] = "cell size must be greater than zero"
    }
    if len(errs) > 0 {
        return errs
    }
    return nil
}

// ValidateSlotGeometry rejects a non-positive base size or a negative
// extension allowance.
func ValidateSlotGeometry(baseSize, availableExtension float64) error {
    errs := ValidationError{}
    if baseSize <= 0 {
        errs["base_size"] = "base size must be greater than zero"
    }
    if availableExtension < 0 {
        errs["available_extension"] = "available extension cannot be negative"
    }
    if len(errs) > 0 {
        return errs
    }
    return nil
}

// ValidateOrderPayment enforces the payed_at consistency rule: a payed
// order carries a timestamp, any other status must not.  For the
// pending→payed transition callers pass now when the client supplied no
// timestamp.
func ValidateOrderPayment(status string, payedAt *time.Time) error {
    if status == "payed" && payedAt == nil {
        return ValidationError{"payed_at": "a payed order requires the payment timestamp"}
    }
    if status != "payed" && payedAt != nil {
        return ValidationError{"payed_at": "only payed orders may carry a payment timestamp"}
    }
    return nil
}
