package handler // handler defines http handlers

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
)

// dbTimeout bounds every database round-trip made from a handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. The JWT decoder may have stored it under several types.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// currentRole returns the role claim stored by the JWT middleware.
func currentRole(c echo.Context) string {
    role, _ := c.Get("role").(string)
    return role
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// paramQueryID parses a numeric query parameter.
func paramQueryID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.QueryParam(name), 10, 64)
}

// writeError translates domain and repository errors into JSON responses.
// Validation failures answer 400 with a per-field map, sentinel lookups
// answer their natural status, everything else is a 500.
func writeError(c echo.Context, err error) error {
    if ve, ok := booking.AsValidation(err); ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": ve})
    }
    switch {
    case errors.Is(err, booking.ErrFinalPriceForbidden),
        errors.Is(err, booking.ErrBlockedSlot),
        errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrPriceTooHigh):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrNoChange):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "no change"})
    case errors.Is(err, repository.ErrUserNotFound),
        errors.Is(err, repository.ErrSquareNotFound),
        errors.Is(err, repository.ErrEventNotFound),
        errors.Is(err, repository.ErrSlotNotFound),
        errors.Is(err, repository.ErrReservationNotFound),
        errors.Is(err, repository.ErrOrderNotFound),
        errors.Is(err, repository.ErrCheckNotFound),
        errors.Is(err, repository.ErrProductNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
