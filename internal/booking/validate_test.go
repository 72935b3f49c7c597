package booking

import (
    "testing"
    "time"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func baseContext() ReservationContext {
    return ReservationContext{
        EventStart:             day(1),
        EventEnd:               day(8),
        EventRate:              decimal.NewFromInt(50),
        SlotEventID:            10,
        SlotStatus:             "empty",
        SlotBaseSize:           4,
        SlotAvailableExtension: 2,
        SlotRate:               decimal.Zero,
    }
}

func baseCandidate() *ReservationCandidate {
    return &ReservationCandidate{
        EventID:       10,
        MarketSlotID:  20,
        UserID:        30,
        ReservedFrom:  day(1),
        ReservedTo:    day(2),
        UsedExtension: 1,
        Status:        "reserved",
    }
}

func TestValidateReservationComputesPrice(t *testing.T) {
    cand := baseCandidate()
    require.NoError(t, ValidateReservation(cand, baseContext()))
    assert.Equal(t, "250.00", cand.FinalPrice.StringFixed(2))
}

func TestValidateReservationRejectsOverlap(t *testing.T) {
    rctx := baseContext()
    rctx.Siblings = []Interval{{ID: 99, From: day(1), To: day(3)}}

    cand := baseCandidate()
    cand.ReservedFrom = day(2)
    cand.ReservedTo = day(3)

    err := ValidateReservation(cand, rctx)
    ve, ok := AsValidation(err)
    require.True(t, ok, "expected a validation error, got %v", err)
    assert.Contains(t, ve, "reserved_from")
}

func TestValidateReservationAllowsTouchingIntervals(t *testing.T) {
    rctx := baseContext()
    rctx.Siblings = []Interval{{ID: 99, From: day(1), To: day(2)}}

    cand := baseCandidate()
    cand.ReservedFrom = day(2)
    cand.ReservedTo = day(3)

    require.NoError(t, ValidateReservation(cand, rctx))
}

func TestValidateReservationRejectsExcessExtension(t *testing.T) {
    cand := baseCandidate()
    cand.UsedExtension = 3 // slot offers only 2

    err := ValidateReservation(cand, baseContext())
    ve, ok := AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "used_extension")
}

func TestValidateReservationRejectsOddDuration(t *testing.T) {
    cand := baseCandidate()
    cand.ReservedTo = day(4) // 3 days

    err := ValidateReservation(cand, baseContext())
    ve, ok := AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "reserved_to")
}

func TestValidateReservationRejectsOutsideEventWindow(t *testing.T) {
    rctx := baseContext()
    rctx.EventEnd = day(2).Add(-time.Minute)

    err := ValidateReservation(baseCandidate(), rctx)
    ve, ok := AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "reserved_from")
}

func TestValidateReservationEnforcesQuota(t *testing.T) {
    rctx := baseContext()
    rctx.ActiveUserReservations = MaxActiveReservations

    err := ValidateReservation(baseCandidate(), rctx)
    ve, ok := AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "user")

    // Cancelling one frees room for a sixth.
    rctx.ActiveUserReservations = MaxActiveReservations - 1
    require.NoError(t, ValidateReservation(baseCandidate(), rctx))
}

func TestValidateReservationSlotFromDifferentEvent(t *testing.T) {
    rctx := baseContext()
    rctx.SlotEventID = 11

    err := ValidateReservation(baseCandidate(), rctx)
    ve, ok := AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "market_slot")
}

func TestValidateReservationBlockedSlot(t *testing.T) {
    rctx := baseContext()
    rctx.SlotStatus = "blocked"

    err := ValidateReservation(baseCandidate(), rctx)
    assert.ErrorIs(t, err, ErrBlockedSlot)

    rctx.ActorPrivileged = true
    require.NoError(t, ValidateReservation(baseCandidate(), rctx))
}

func TestValidateReservationFinalPricePermissions(t *testing.T) {
    cand := baseCandidate()
    cand.FinalPrice = decimal.NewFromInt(100)

    err := ValidateReservation(cand, baseContext())
    assert.ErrorIs(t, err, ErrFinalPriceForbidden)

    rctx := baseContext()
    rctx.ActorPrivileged = true
    cand = baseCandidate()
    cand.FinalPrice = decimal.NewFromInt(100)
    require.NoError(t, ValidateReservation(cand, rctx))
    assert.Equal(t, "100.00", cand.FinalPrice.StringFixed(2))

    cand = baseCandidate()
    cand.FinalPrice = MaxFinalPrice.Add(decimal.NewFromInt(1))
    assert.ErrorIs(t, ValidateReservation(cand, rctx), ErrPriceTooHigh)
}

func TestValidateReservationTruncatesBounds(t *testing.T) {
    cand := baseCandidate()
    cand.ReservedFrom = day(1).Add(30 * time.Second)
    cand.ReservedTo = day(2).Add(45 * time.Second)

    require.NoError(t, ValidateReservation(cand, baseContext()))
    assert.Equal(t, day(1), cand.ReservedFrom)
    assert.Equal(t, day(2), cand.ReservedTo)
}

func TestValidateEventWindow(t *testing.T) {
    start, end, err := ValidateEventWindow(day(1).Add(10*time.Second), day(8), 0, nil)
    require.NoError(t, err)
    assert.Equal(t, day(1), start)
    assert.Equal(t, day(8), end)

    _, _, err = ValidateEventWindow(day(8), day(1), 0, nil)
    ve, ok := AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "start")

    _, _, err = ValidateEventWindow(day(2), day(4), 0, []Interval{{ID: 5, From: day(1), To: day(3)}})
    ve, ok = AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "start")
}

func TestValidateGeometry(t *testing.T) {
    require.NoError(t, ValidateSquareGeometry(10, 10, 60, 45, 10))

    err := ValidateSquareGeometry(0, 10, 60, 45, 0)
    ve, ok := AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "width")
    assert.Contains(t, ve, "cellsize")

    require.NoError(t, ValidateSlotGeometry(4, 0))
    err = ValidateSlotGeometry(0, -1)
    ve, ok = AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "base_size")
    assert.Contains(t, ve, "available_extension")
}

func TestValidateOrderPayment(t *testing.T) {
    now := time.Now().UTC()
    require.NoError(t, ValidateOrderPayment("payed", &now))
    require.NoError(t, ValidateOrderPayment("pending", nil))

    err := ValidateOrderPayment("payed", nil)
    ve, ok := AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "payed_at")

    err = ValidateOrderPayment("pending", &now)
    ve, ok = AsValidation(err)
    require.True(t, ok)
    assert.Contains(t, ve, "payed_at")
}
