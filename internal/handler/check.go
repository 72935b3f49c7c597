package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
)

// CheckHandler records physical inspections of reservations. Routes are
// restricted to admins and checkers.
type CheckHandler struct {
    Checks       *repository.ReservationCheckRepo
    Reservations *repository.ReservationRepo
}

func NewCheckHandler(cr *repository.ReservationCheckRepo, rr *repository.ReservationRepo) *CheckHandler {
    if cr == nil || rr == nil {
        panic("nil dependency passed to NewCheckHandler")
    }
    return &CheckHandler{Checks: cr, Reservations: rr}
}

type checkCreateReq struct {
    ReservationID uint64     `json:"reservation_id"`
    CheckedAt     *time.Time `json:"checked_at"`
}

// Create handles POST /v1/reservation-checks. The checker is always the
// caller; backdated checks are allowed for offline inspections.
func (h *CheckHandler) Create(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req checkCreateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    chk := &model.ReservationCheck{
        ReservationID: req.ReservationID,
        CheckerID:     &callerID,
    }
    if req.CheckedAt != nil {
        chk.CheckedAt = req.CheckedAt.UTC()
    }
    id, err := h.Checks.Create(ctx, chk)
    if err != nil {
        return writeError(c, err)
    }
    chk.ID = id
    return c.JSON(http.StatusCreated, chk)
}

// ListByReservation handles GET /v1/reservations/:id/checks.
func (h *CheckHandler) ListByReservation(c echo.Context) error {
    reservationID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Reservations.GetByID(ctx, reservationID); err != nil {
        return writeError(c, err)
    }
    items, err := h.Checks.ListByReservation(ctx, reservationID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/reservation-checks/:id. Removing the newest
// check recomputes the reservation's cached check status.
func (h *CheckHandler) Delete(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Checks.SoftDelete(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
