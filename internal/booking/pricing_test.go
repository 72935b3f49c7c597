package booking

import (
    "testing"
    "time"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSlotAreaPriceInheritsEventRate(t *testing.T) {
    // Slot rate left at zero: a one-day reservation of a 4 m² slot with
    // 1 m² extension at the event's 50/m² rate costs 250.00.
    from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
    to := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

    price, err := SlotAreaPrice(decimal.Zero, decimal.NewFromInt(50), 4, 1, from, to)
    require.NoError(t, err)
    assert.Equal(t, "250.00", price.StringFixed(2))
}

func TestSlotAreaPricePrefersSlotRate(t *testing.T) {
    from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
    to := from.AddDate(0, 0, 7)

    price, err := SlotAreaPrice(decimal.NewFromInt(10), decimal.NewFromInt(50), 2, 0, from, to)
    require.NoError(t, err)
    assert.Equal(t, "140.00", price.StringFixed(2))
}

func TestSlotAreaPriceIsDeterministic(t *testing.T) {
    from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
    to := from.AddDate(0, 0, 30)

    first, err := SlotAreaPrice(decimal.RequireFromString("12.34"), decimal.Zero, 3.5, 1.5, from, to)
    require.NoError(t, err)
    second, err := SlotAreaPrice(decimal.RequireFromString("12.34"), decimal.Zero, 3.5, 1.5, from, to)
    require.NoError(t, err)
    assert.True(t, first.Equal(second), "identical inputs must price identically")
}

func TestSlotAreaPriceRoundsHalfUp(t *testing.T) {
    from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
    to := from.AddDate(0, 0, 1)

    // 1 day × 0.125/m² × 1 m² = 0.125 -> 0.13
    price, err := SlotAreaPrice(decimal.RequireFromString("0.125"), decimal.Zero, 1, 0, from, to)
    require.NoError(t, err)
    assert.Equal(t, "0.13", price.StringFixed(2))
}

func TestSlotAreaPriceRejectsExcessivePrice(t *testing.T) {
    from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
    to := from.AddDate(0, 0, 30)

    _, err := SlotAreaPrice(decimal.NewFromInt(1000000), decimal.Zero, 100, 0, from, to)
    assert.ErrorIs(t, err, ErrPriceTooHigh)
}

func TestGridAreaPrice(t *testing.T) {
    price, err := GridAreaPrice(40, 40, 10, decimal.NewFromInt(50))
    require.NoError(t, err)
    assert.Equal(t, "800000.00", price.StringFixed(2))

    _, err = GridAreaPrice(60, 45, 10, decimal.NewFromInt(50))
    assert.ErrorIs(t, err, ErrPriceTooHigh)
}
