package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

type productReq struct {
    Name string `json:"name"`
    Code uint32 `json:"code"`
}

type productLinkReq struct {
    ProductID        uint64    `json:"product_id"`
    EventID          uint64    `json:"event_id"`
    StartSellingDate time.Time `json:"start_selling_date"`
    EndSellingDate   time.Time `json:"end_selling_date"`
}

// CreateProduct handles POST /v1/products.
func (h *ManagerHandler) CreateProduct(c echo.Context) error {
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(req.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    p := &model.Product{Name: name, Code: req.Code}
    id, err := h.Products.Create(ctx, p)
    if err != nil {
        if strings.Contains(err.Error(), "1062") {
            return c.JSON(http.StatusConflict, echo.Map{"error": "product code already exists"})
        }
        return writeError(c, err)
    }
    p.ID = id
    return c.JSON(http.StatusCreated, p)
}

// ListProducts handles GET /v1/products.
func (h *ManagerHandler) ListProducts(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Products.List(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateProduct handles PUT /v1/products/:id.
func (h *ManagerHandler) UpdateProduct(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(req.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Products.Update(ctx, &model.Product{ID: id, Name: name, Code: req.Code}); err != nil {
        return writeError(c, err)
    }
    updated, err := h.Products.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, updated)
}

// DeleteProduct handles DELETE /v1/products/:id.
func (h *ManagerHandler) DeleteProduct(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Products.SoftDelete(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// LinkProduct handles POST /v1/event-products. Two links of the same
// product to the same event must not have overlapping selling windows.
func (h *ManagerHandler) LinkProduct(c echo.Context) error {
    var req productLinkReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Products.GetByID(ctx, req.ProductID); err != nil {
        return writeError(c, err)
    }
    if _, err := h.Events.GetByID(ctx, req.EventID); err != nil {
        return writeError(c, err)
    }

    start := booking.TruncateToMinute(req.StartSellingDate.UTC())
    end := booking.TruncateToMinute(req.EndSellingDate.UTC())
    if !end.After(start) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_selling_date must be after start_selling_date"})
    }
    siblings, err := h.Products.ListLinkIntervals(ctx, req.ProductID, req.EventID)
    if err != nil {
        return writeError(c, err)
    }
    if booking.HasOverlap(booking.Interval{From: start, To: end}, siblings) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "selling window overlaps an existing link"})
    }

    ep := &model.EventProduct{
        ProductID:        req.ProductID,
        EventID:          req.EventID,
        StartSellingDate: start,
        EndSellingDate:   end,
    }
    id, err := h.Products.LinkToEvent(ctx, ep)
    if err != nil {
        return writeError(c, err)
    }
    ep.ID = id
    return c.JSON(http.StatusCreated, ep)
}

// ListEventProducts handles GET /v1/events/:id/products.
func (h *ManagerHandler) ListEventProducts(c echo.Context) error {
    eventID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Products.ListByEvent(ctx, eventID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UnlinkProduct handles DELETE /v1/event-products/:id.
func (h *ManagerHandler) UnlinkProduct(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Products.UnlinkFromEvent(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
