package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

type eventReq struct {
    SquareID    uint64          `json:"square_id"`
    Name        string          `json:"name"`
    Description *string         `json:"description"`
    Start       time.Time       `json:"start"`
    End         time.Time       `json:"end"`
    PricePerM2  decimal.Decimal `json:"price_per_m2"`
}

// CreateEvent handles POST /v1/events. The window is checked against
// every other active event on the square before the insert.
func (h *ManagerHandler) CreateEvent(c echo.Context) error {
    var req eventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(req.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if req.PricePerM2.IsNegative() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_m2 must not be negative"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Squares.GetByID(ctx, req.SquareID); err != nil {
        return writeError(c, err)
    }
    siblings, err := h.Events.ListIntervalsForSquare(ctx, req.SquareID)
    if err != nil {
        return writeError(c, err)
    }
    start, end, err := booking.ValidateEventWindow(req.Start, req.End, 0, siblings)
    if err != nil {
        return writeError(c, err)
    }

    ev := &model.Event{
        SquareID:    req.SquareID,
        Name:        name,
        Description: req.Description,
        Start:       start,
        End:         end,
        PricePerM2:  req.PricePerM2,
    }
    id, err := h.Events.Create(ctx, ev)
    if err != nil {
        return writeError(c, err)
    }
    ev.ID = id
    return c.JSON(http.StatusCreated, ev)
}

// GetEvent handles GET /v1/events/:id.
func (h *ManagerHandler) GetEvent(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    ev, err := h.Events.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, ev)
}

// ListEvents handles GET /v1/squares/:id/events.
func (h *ManagerHandler) ListEvents(c echo.Context) error {
    squareID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Events.ListBySquare(ctx, squareID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateEvent handles PUT /v1/events/:id. Moving the window revalidates
// against siblings, excluding the event itself by identity.
func (h *ManagerHandler) UpdateEvent(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req eventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(req.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if req.PricePerM2.IsNegative() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_m2 must not be negative"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    cur, err := h.Events.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    squareID := req.SquareID
    if squareID == 0 {
        squareID = cur.SquareID
    }
    if _, err := h.Squares.GetByID(ctx, squareID); err != nil {
        return writeError(c, err)
    }
    siblings, err := h.Events.ListIntervalsForSquare(ctx, squareID)
    if err != nil {
        return writeError(c, err)
    }
    start, end, err := booking.ValidateEventWindow(req.Start, req.End, id, siblings)
    if err != nil {
        return writeError(c, err)
    }

    ev := &model.Event{
        ID:          id,
        SquareID:    squareID,
        Name:        name,
        Description: req.Description,
        Start:       start,
        End:         end,
        PricePerM2:  req.PricePerM2,
    }
    if err := h.Events.Update(ctx, ev); err != nil {
        return writeError(c, err)
    }
    updated, err := h.Events.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, updated)
}

// DeleteEvent handles DELETE /v1/events/:id.
func (h *ManagerHandler) DeleteEvent(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Events.SoftDelete(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
