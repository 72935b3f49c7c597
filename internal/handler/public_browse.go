package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
)

// PublicHandler serves the unauthenticated browsing surface: squares,
// upcoming events and slot availability. Responses go through the Redis
// response cache, so they stay cheap under load.
type PublicHandler struct {
    Squares *repository.SquareRepo
    Events  *repository.EventRepo
    Slots   *repository.MarketSlotRepo
}

func NewPublicHandler(sq *repository.SquareRepo, ev *repository.EventRepo, sl *repository.MarketSlotRepo) *PublicHandler {
    if sq == nil || ev == nil || sl == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Squares: sq, Events: ev, Slots: sl}
}

// ListSquares handles GET /v1/public/squares with an optional ?city=.
func (h *PublicHandler) ListSquares(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Squares.List(ctx, strings.TrimSpace(c.QueryParam("city")))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListUpcomingEvents handles GET /v1/public/events.
func (h *PublicHandler) ListUpcomingEvents(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Events.ListUpcoming(ctx, time.Now().UTC())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEvent handles GET /v1/public/events/:id.
func (h *PublicHandler) GetEvent(c echo.Context) error {
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

// ListEventSlots handles GET /v1/public/events/:id/market-slots. The
// slot list carries status and geometry so a storefront can render the
// occupancy grid.
func (h *PublicHandler) ListEventSlots(c echo.Context) error {
    eventID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Events.GetByID(ctx, eventID); err != nil {
        return writeError(c, err)
    }
    items, err := h.Slots.ListByEvent(ctx, eventID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
