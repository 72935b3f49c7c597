// Package booking holds the pure domain rules for marketplace reservations:
// interval overlap detection, permitted durations, the pricing engine and
// the reservation validation that every create and update funnels through.
// Nothing in this package touches the database; repositories supply the
// context (sibling intervals, quota counts, slot and event attributes) and
// handlers translate the returned errors into HTTP responses.
package booking

import (
    "errors"
    "sort"
    "strings"
)

// ErrPriceTooHigh is returned when a computed or supplied final price
// exceeds MaxFinalPrice.  The price is never clamped; a value that high
// points at a configuration mistake and must surface.
var ErrPriceTooHigh = errors.New("final price exceeds the allowed maximum")

// ErrFinalPriceForbidden is returned when a non-privileged caller supplies
// a non-zero final price.  Handlers translate this into an authorization
// failure rather than a validation error.
var ErrFinalPriceForbidden = errors.New("only privileged roles may set the final price")

// ErrBlockedSlot is returned when a non-privileged caller tries to reserve
// a blocked market slot.
var ErrBlockedSlot = errors.New("market slot is blocked")

// ValidationError carries user-correctable failures keyed by field name.
// It satisfies the error interface so it can travel through the usual
// error returns; handlers render the map as the JSON response body.
type ValidationError map[string]string

func (e ValidationError) Error() string {
    keys := make([]string, 0, len(e))
    for k := range e {
        keys = append(keys, k)
    }
    sort.Strings(keys)
    parts := make([]string, 0, len(keys))
    for _, k := range keys {
        parts = append(parts, k+": "+e[k])
    }
    return strings.Join(parts, "; ")
}

// AsValidation extracts a ValidationError from err when present.
func AsValidation(err error) (ValidationError, bool) {
    var ve ValidationError
    if errors.As(err, &ve) {
        return ve, true
    }
    return nil, false
}
