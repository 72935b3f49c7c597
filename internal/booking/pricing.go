package booking

import (
    "time"

    "github.com/shopspring/decimal"
)

// MaxFinalPrice is the upper bound on any reservation price.  Values above
// it are rejected with ErrPriceTooHigh, never silently clamped.
var MaxFinalPrice = decimal.RequireFromString("999999.99")

// EffectiveRate resolves the rate per m² for a slot: the slot's own rate
// when positive, otherwise the owning event's default.
func EffectiveRate(slotRate, eventRate decimal.Decimal) decimal.Decimal {
    if slotRate.IsPositive() {
        return slotRate
    }
    return eventRate
}

// SlotAreaPrice computes the canonical final price of a reservation:
//
//	days × rate × (base_size + used_extension)
//
// where rate falls back from the slot to the event, days is the whole-day
// duration of [from, to), and the result is rounded to two decimal places
// half-up.  It returns ErrPriceTooHigh when the result exceeds
// MaxFinalPrice.
func SlotAreaPrice(slotRate, eventRate decimal.Decimal, baseSize, usedExtension float64, from, to time.Time) (decimal.Decimal, error) {
    rate := EffectiveRate(slotRate, eventRate)
    area := decimal.NewFromFloat(baseSize).Add(decimal.NewFromFloat(usedExtension))
    days := decimal.NewFromInt(int64(DurationDays(from, to)))
    price := days.Mul(rate).Mul(area).Round(2)
    if price.GreaterThan(MaxFinalPrice) {
        return decimal.Zero, ErrPriceTooHigh
    }
    return price, nil
}

// GridAreaPrice is the alternative pricing mode for squares without slot
// geometry: the whole grid area at the given rate, ignoring duration.  It
// is only used when explicitly selected, never mixed into SlotAreaPrice.
func GridAreaPrice(gridRows, gridCols, cellSize uint32, rate decimal.Decimal) (decimal.Decimal, error) {
    cells := decimal.NewFromInt(int64(gridRows) * int64(gridCols) * int64(cellSize))
    price := cells.Mul(rate).Round(2)
    if price.GreaterThan(MaxFinalPrice) {
        return decimal.Zero, ErrPriceTooHigh
    }
    return price, nil
}
