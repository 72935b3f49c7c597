package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/utils"
)

type squareReq struct {
    Name        string  `json:"name"`
    Description *string `json:"description"`
    Street      string  `json:"street"`
    City        string  `json:"city"`
    PSC         string  `json:"psc"`
    Width       uint32  `json:"width"`
    Height      uint32  `json:"height"`
    GridRows    uint32  `json:"grid_rows"`
    GridCols    uint32  `json:"grid_cols"`
    CellSize    uint32  `json:"cellsize"`
}

func (r *squareReq) toModel() (*model.Square, booking.ValidationError) {
    ve := booking.ValidationError{}
    name := strings.TrimSpace(r.Name)
    if name == "" {
        ve["name"] = "name is required"
    }
    if !utils.ValidPSC(r.PSC) {
        ve["psc"] = "psc must be 5 digits"
    }
    if err := booking.ValidateSquareGeometry(r.Width, r.Height, r.GridRows, r.GridCols, r.CellSize); err != nil {
        if geo, ok := booking.AsValidation(err); ok {
            for k, v := range geo {
                ve[k] = v
            }
        }
    }
    if len(ve) > 0 {
        return nil, ve
    }
    var psc uint32
    for i := 0; i < len(r.PSC); i++ {
        psc = psc*10 + uint32(r.PSC[i]-'0')
    }
    return &model.Square{
        Name:        name,
        Description: r.Description,
        Street:      strings.TrimSpace(r.Street),
        City:        strings.TrimSpace(r.City),
        PSC:         psc,
        Width:       r.Width,
        Height:      r.Height,
        GridRows:    r.GridRows,
        GridCols:    r.GridCols,
        CellSize:    r.CellSize,
    }, nil
}

// CreateSquare handles POST /v1/squares.
func (h *ManagerHandler) CreateSquare(c echo.Context) error {
    var req squareReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    sq, ve := req.toModel()
    if ve != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": ve})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    id, err := h.Squares.Create(ctx, sq)
    if err != nil {
        return writeError(c, err)
    }
    sq.ID = id
    return c.JSON(http.StatusCreated, sq)
}

// GetSquare handles GET /v1/squares/:id.
func (h *ManagerHandler) GetSquare(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    sq, err := h.Squares.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, sq)
}

// ListSquares handles GET /v1/squares with an optional ?city= filter.
func (h *ManagerHandler) ListSquares(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Squares.List(ctx, strings.TrimSpace(c.QueryParam("city")))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateSquare handles PUT /v1/squares/:id.
func (h *ManagerHandler) UpdateSquare(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req squareReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    sq, ve := req.toModel()
    if ve != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": ve})
    }
    sq.ID = id

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Squares.Update(ctx, sq); err != nil {
        return writeError(c, err)
    }
    updated, err := h.Squares.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, updated)
}

// DeleteSquare handles DELETE /v1/squares/:id. The soft delete cascades
// into events, slots, reservations, orders and checks.
func (h *ManagerHandler) DeleteSquare(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Squares.SoftDelete(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
