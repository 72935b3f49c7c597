package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

type slotReq struct {
    EventID            uint64          `json:"event_id"`
    Status             string          `json:"status"`
    BaseSize           float64         `json:"base_size"`
    AvailableExtension float64         `json:"available_extension"`
    X                  int32           `json:"x"`
    Y                  int32           `json:"y"`
    Width              uint32          `json:"width"`
    Height             uint32          `json:"height"`
    PricePerM2         decimal.Decimal `json:"price_per_m2"`
}

// CreateSlot handles POST /v1/market-slots. The slot number is assigned
// inside a transaction and a zero price inherits the event rate, frozen
// at creation time.
func (h *ManagerHandler) CreateSlot(c echo.Context) error {
    var req slotReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := booking.ValidateSlotGeometry(req.BaseSize, req.AvailableExtension); err != nil {
        return writeError(c, err)
    }
    if req.PricePerM2.IsNegative() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_m2 must not be negative"})
    }
    status := req.Status
    if status == "" {
        status = model.SlotStatusEmpty
    }
    if status != model.SlotStatusEmpty && status != model.SlotStatusBlocked {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be empty or blocked"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    ev, err := h.Events.GetByID(ctx, req.EventID)
    if err != nil {
        return writeError(c, err)
    }
    price := req.PricePerM2
    if !price.IsPositive() {
        price = ev.PricePerM2
    }

    tx, err := h.DB.BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    committed := false
    defer func() {
        if !committed {
            tx.Rollback()
        }
    }()

    ms := &model.MarketSlot{
        EventID:            req.EventID,
        Status:             status,
        BaseSize:           req.BaseSize,
        AvailableExtension: req.AvailableExtension,
        X:                  req.X,
        Y:                  req.Y,
        Width:              req.Width,
        Height:             req.Height,
        PricePerM2:         price,
    }
    id, err := h.Slots.CreateTx(ctx, tx, ms)
    if err != nil {
        return writeError(c, err)
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    committed = true

    ms.ID = id
    return c.JSON(http.StatusCreated, ms)
}

// GetSlot handles GET /v1/market-slots/:id.
func (h *ManagerHandler) GetSlot(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    ms, err := h.Slots.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, ms)
}

// ListSlots handles GET /v1/events/:id/market-slots.
func (h *ManagerHandler) ListSlots(c echo.Context) error {
    eventID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Slots.ListByEvent(ctx, eventID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateSlot handles PUT /v1/market-slots/:id. The event binding and
// slot number never change; status flips between empty and blocked only,
// taken is owned by the reservation flow.
func (h *ManagerHandler) UpdateSlot(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req slotReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := booking.ValidateSlotGeometry(req.BaseSize, req.AvailableExtension); err != nil {
        return writeError(c, err)
    }
    if req.PricePerM2.IsNegative() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_m2 must not be negative"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    cur, err := h.Slots.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    status := req.Status
    if status == "" {
        status = cur.Status
    }
    if status != cur.Status {
        if cur.Status == model.SlotStatusTaken || status == model.SlotStatusTaken {
            return c.JSON(http.StatusConflict, echo.Map{"error": "taken status is managed by reservations"})
        }
    }
    price := req.PricePerM2
    if !price.IsPositive() {
        price = cur.PricePerM2
    }

    ms := &model.MarketSlot{
        ID:                 id,
        EventID:            cur.EventID,
        Status:             status,
        Number:             cur.Number,
        BaseSize:           req.BaseSize,
        AvailableExtension: req.AvailableExtension,
        X:                  req.X,
        Y:                  req.Y,
        Width:              req.Width,
        Height:             req.Height,
        PricePerM2:         price,
    }
    if err := h.Slots.Update(ctx, ms); err != nil {
        return writeError(c, err)
    }
    updated, err := h.Slots.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, updated)
}

// DeleteSlot handles DELETE /v1/market-slots/:id.
func (h *ManagerHandler) DeleteSlot(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Slots.SoftDelete(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
