package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/middleware"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/queue"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
    queue_publisher "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/service"
)

// OrderHandler manages the payment wrapper around reservations.
type OrderHandler struct {
    DB           *sql.DB
    Orders       *repository.OrderRepo
    Reservations *repository.ReservationRepo
    Log          *logrus.Logger
}

func NewOrderHandler(db *sql.DB, or *repository.OrderRepo, rr *repository.ReservationRepo, log *logrus.Logger) *OrderHandler {
    if db == nil || or == nil || rr == nil {
        panic("nil dependency passed to NewOrderHandler")
    }
    return &OrderHandler{DB: db, Orders: or, Reservations: rr, Log: log}
}

type orderCreateReq struct {
    ReservationID uint64  `json:"reservation_id"`
    Note          *string `json:"note"`
}

type orderUpdateReq struct {
    Status  string     `json:"status"`
    Note    *string    `json:"note"`
    PayedAt *time.Time `json:"payed_at"`
}

// Create handles POST /v1/orders. The order inherits the reservation's
// user and final price; a reservation carries at most one live order.
func (h *OrderHandler) Create(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    privileged := middleware.IsPrivileged(c)

    var req orderCreateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    rv, err := h.Reservations.GetByID(ctx, req.ReservationID)
    if err != nil {
        return writeError(c, err)
    }
    if !privileged && rv.UserID != callerID {
        return writeError(c, repository.ErrForbidden)
    }
    if rv.Status != model.ReservationStatusReserved {
        return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not active"})
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

    o := &model.Order{
        UserID:        rv.UserID,
        ReservationID: rv.ID,
        Status:        model.OrderStatusPending,
        Note:          req.Note,
        PriceToPay:    rv.FinalPrice,
    }
    id, err := h.Orders.CreateTx(ctx, tx, o)
    if err != nil {
        return writeError(c, err)
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    committed = true

    o.ID = id
    return c.JSON(http.StatusCreated, o)
}

// Get handles GET /v1/orders/:id. Sellers see only their own.
func (h *OrderHandler) Get(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    o, err := h.Orders.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    if currentRole(c) == model.RoleSeller && o.UserID != callerID {
        return writeError(c, repository.ErrOrderNotFound)
    }
    return c.JSON(http.StatusOK, o)
}

// List handles GET /v1/orders. Sellers get their own, staff everything.
func (h *OrderHandler) List(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    var items []model.Order
    if currentRole(c) == model.RoleSeller {
        items, err = h.Orders.ListByUser(ctx, callerID)
    } else {
        items, err = h.Orders.List(ctx)
    }
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateStatus handles PUT /v1/orders/:id. Staff drive the payment
// lifecycle; a seller may only cancel their own pending order. Status
// changes mirror onto the reservation: a cancelled order cancels it.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    privileged := middleware.IsPrivileged(c)

    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req orderUpdateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    switch status {
    case model.OrderStatusPending, model.OrderStatusPayed, model.OrderStatusCancelled:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

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

    cur, err := h.Orders.GetByIDTx(ctx, tx, id)
    if err != nil {
        return writeError(c, err)
    }
    if !privileged {
        if cur.UserID != callerID || status != model.OrderStatusCancelled {
            return writeError(c, repository.ErrForbidden)
        }
    }
    // A cancelled order already cancelled its reservation and freed the
    // slot; bringing it back would skip overlap and quota validation.
    if cur.Status == model.OrderStatusCancelled && status != model.OrderStatusCancelled {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cancelled order cannot be reactivated"})
    }

    now := time.Now().UTC()
    payedAt := req.PayedAt
    switch status {
    case model.OrderStatusPayed:
        // pending -> payed stamps the payment time when absent.
        if payedAt == nil {
            payedAt = &now
        }
    default:
        payedAt = nil
    }
    if err := booking.ValidateOrderPayment(status, payedAt); err != nil {
        return writeError(c, err)
    }

    note := req.Note
    if note == nil {
        note = cur.Note
    }
    upd := &model.Order{ID: id, Status: status, Note: note, PayedAt: payedAt}
    if err := h.Orders.UpdateTx(ctx, tx, upd); err != nil && err != repository.ErrNoChange {
        return writeError(c, err)
    }
    if status == model.OrderStatusCancelled && cur.Status != model.OrderStatusCancelled {
        if err := h.Reservations.CancelTx(ctx, tx, cur.ReservationID, now); err != nil && err != repository.ErrNoChange {
            return writeError(c, err)
        }
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    committed = true

    if status == model.OrderStatusPayed && cur.Status != model.OrderStatusPayed {
        h.notifyPaid(cur, now)
    }

    updated, err := h.Orders.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/orders/:id (staff only, enforced at the
// route). Removing an order cancels its reservation rather than
// deleting it, which also frees the slot while the event runs.
func (h *OrderHandler) Delete(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

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

    cur, err := h.Orders.GetByIDTx(ctx, tx, id)
    if err != nil {
        return writeError(c, err)
    }
    now := time.Now().UTC()
    if err := h.Orders.SoftDeleteTx(ctx, tx, id, now); err != nil {
        return writeError(c, err)
    }
    if err := h.Reservations.CancelTx(ctx, tx, cur.ReservationID, now); err != nil && err != repository.ErrNoChange {
        return writeError(c, err)
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    committed = true
    return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) notifyPaid(o *model.Order, now time.Time) {
    evt := queue.NotificationEvent{
        Kind:          queue.KindOrderPaid,
        ReservationID: o.ReservationID,
        OrderID:       o.ID,
        OrderNumber:   o.OrderNumber,
        UserID:        o.UserID,
        Price:         o.PriceToPay.StringFixed(2),
        OccurredAt:    now.Format(time.RFC3339),
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = queue_publisher.PublishNotification(ctx, h.Log, evt)
    }()
}
