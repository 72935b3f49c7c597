package handler

import (
    "context"
    "net/http"
    "time"

    "database/sql"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/middleware"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/queue"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
    queue_publisher "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/service"
)

// ReservationHandler orchestrates the reservation write path. Every
// create and update runs in one transaction: the slot row is locked
// first, the event, sibling intervals and quota are read under that
// lock, the candidate is validated and only then written. Two sellers
// racing for the same slot interval serialize on the row lock, so the
// overlap check cannot race.
type ReservationHandler struct {
    DB           *sql.DB
    Reservations *repository.ReservationRepo
    Events       *repository.EventRepo
    Slots        *repository.MarketSlotRepo
    Squares      *repository.SquareRepo
    Log          *logrus.Logger
}

func NewReservationHandler(db *sql.DB, rr *repository.ReservationRepo, er *repository.EventRepo, sr *repository.MarketSlotRepo, qr *repository.SquareRepo, log *logrus.Logger) *ReservationHandler {
    if db == nil || rr == nil || er == nil || sr == nil || qr == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{DB: db, Reservations: rr, Events: er, Slots: sr, Squares: qr, Log: log}
}

type reservationReq struct {
    EventID       uint64          `json:"event_id"`
    MarketSlotID  uint64          `json:"market_slot_id"`
    UserID        uint64          `json:"user_id"` // privileged roles may book for someone else
    ReservedFrom  time.Time       `json:"reserved_from"`
    ReservedTo    time.Time       `json:"reserved_to"`
    UsedExtension float64         `json:"used_extension"`
    Note          *string         `json:"note"`
    FinalPrice    decimal.Decimal `json:"final_price"` // zero means "compute for me"
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    privileged := middleware.IsPrivileged(c)

    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    userID := callerID
    if privileged && req.UserID != 0 {
        userID = req.UserID
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

    slot, err := h.Slots.GetForUpdateTx(ctx, tx, req.MarketSlotID)
    if err != nil {
        return writeError(c, err)
    }
    ev, err := h.Events.GetByIDTx(ctx, tx, req.EventID)
    if err != nil {
        return writeError(c, err)
    }
    siblings, err := h.Reservations.ListIntervalsForSlotTx(ctx, tx, slot.ID)
    if err != nil {
        return writeError(c, err)
    }
    active, err := h.Reservations.CountActiveByUserTx(ctx, tx, userID, 0, time.Now().UTC())
    if err != nil {
        return writeError(c, err)
    }

    cand := &booking.ReservationCandidate{
        EventID:       req.EventID,
        MarketSlotID:  req.MarketSlotID,
        UserID:        userID,
        ReservedFrom:  req.ReservedFrom,
        ReservedTo:    req.ReservedTo,
        UsedExtension: req.UsedExtension,
        Status:        model.ReservationStatusReserved,
        FinalPrice:    req.FinalPrice,
    }
    rctx := booking.ReservationContext{
        EventStart:             ev.Start,
        EventEnd:               ev.End,
        EventRate:              ev.PricePerM2,
        SlotEventID:            slot.EventID,
        SlotStatus:             slot.Status,
        SlotBaseSize:           slot.BaseSize,
        SlotAvailableExtension: slot.AvailableExtension,
        SlotRate:               slot.PricePerM2,
        Siblings:               siblings,
        ActiveUserReservations: active,
        ActorPrivileged:        privileged,
    }
    if err := booking.ValidateReservation(cand, rctx); err != nil {
        return writeError(c, err)
    }

    rv := &model.Reservation{
        EventID:       cand.EventID,
        MarketSlotID:  cand.MarketSlotID,
        UserID:        cand.UserID,
        UsedExtension: cand.UsedExtension,
        ReservedFrom:  cand.ReservedFrom,
        ReservedTo:    cand.ReservedTo,
        Status:        cand.Status,
        Note:          req.Note,
        FinalPrice:    cand.FinalPrice,
    }
    id, err := h.Reservations.CreateTx(ctx, tx, rv)
    if err != nil {
        return writeError(c, err)
    }
    if err := h.Slots.UpdateStatusTx(ctx, tx, slot.ID, model.SlotStatusTaken); err != nil {
        return writeError(c, err)
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    committed = true

    rv.ID = id
    h.notify(queue.KindReservationCreated, rv, ev, slot)
    return c.JSON(http.StatusCreated, rv)
}

// Update handles PUT /v1/reservations/:id. Sellers may move their own
// reservations; privileged roles may move anyone's and set the price.
func (h *ReservationHandler) Update(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    privileged := middleware.IsPrivileged(c)

    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
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

    cur, err := h.Reservations.GetByIDTx(ctx, tx, id)
    if err != nil {
        return writeError(c, err)
    }
    if !privileged && cur.UserID != callerID {
        return writeError(c, repository.ErrForbidden)
    }

    slot, err := h.Slots.GetForUpdateTx(ctx, tx, cur.MarketSlotID)
    if err != nil {
        return writeError(c, err)
    }
    ev, err := h.Events.GetByIDTx(ctx, tx, cur.EventID)
    if err != nil {
        return writeError(c, err)
    }
    siblings, err := h.Reservations.ListIntervalsForSlotTx(ctx, tx, slot.ID)
    if err != nil {
        return writeError(c, err)
    }
    active, err := h.Reservations.CountActiveByUserTx(ctx, tx, cur.UserID, id, time.Now().UTC())
    if err != nil {
        return writeError(c, err)
    }

    // The price is recomputed unless a privileged caller pins it.
    price := decimal.Zero
    if privileged && !req.FinalPrice.IsZero() {
        price = req.FinalPrice
    }
    cand := &booking.ReservationCandidate{
        ID:            id,
        EventID:       cur.EventID,
        MarketSlotID:  cur.MarketSlotID,
        UserID:        cur.UserID,
        ReservedFrom:  req.ReservedFrom,
        ReservedTo:    req.ReservedTo,
        UsedExtension: req.UsedExtension,
        Status:        cur.Status,
        FinalPrice:    price,
    }
    slotStatus := slot.Status
    if slotStatus == model.SlotStatusBlocked {
        // The seller already holds this slot; blocking it afterwards must
        // not strand their existing reservation.
        slotStatus = model.SlotStatusTaken
    }
    rctx := booking.ReservationContext{
        EventStart:             ev.Start,
        EventEnd:               ev.End,
        EventRate:              ev.PricePerM2,
        SlotEventID:            slot.EventID,
        SlotStatus:             slotStatus,
        SlotBaseSize:           slot.BaseSize,
        SlotAvailableExtension: slot.AvailableExtension,
        SlotRate:               slot.PricePerM2,
        Siblings:               siblings,
        ActiveUserReservations: active,
        ActorPrivileged:        privileged,
    }
    if err := booking.ValidateReservation(cand, rctx); err != nil {
        return writeError(c, err)
    }

    upd := &model.Reservation{
        ID:            id,
        UsedExtension: cand.UsedExtension,
        ReservedFrom:  cand.ReservedFrom,
        ReservedTo:    cand.ReservedTo,
        Status:        cand.Status,
        Note:          req.Note,
        FinalPrice:    cand.FinalPrice,
    }
    if err := h.Reservations.UpdateTx(ctx, tx, upd); err != nil && err != repository.ErrNoChange {
        return writeError(c, err)
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    committed = true

    updated, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, updated)
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    privileged := middleware.IsPrivileged(c)

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

    cur, err := h.Reservations.GetByIDTx(ctx, tx, id)
    if err != nil {
        return writeError(c, err)
    }
    if !privileged && cur.UserID != callerID {
        return writeError(c, repository.ErrForbidden)
    }
    if err := h.Reservations.CancelTx(ctx, tx, id, time.Now().UTC()); err != nil {
        return writeError(c, err)
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    committed = true

    if ev, eerr := h.Events.GetByID(ctx, cur.EventID); eerr == nil {
        if slot, serr := h.Slots.GetByID(ctx, cur.MarketSlotID); serr == nil {
            h.notify(queue.KindReservationCancelled, cur, ev, slot)
        }
    }
    return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/reservations/:id (admin and clerk only,
// enforced at the route). The cascade removes the order and checks.
func (h *ReservationHandler) Delete(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Reservations.SoftDelete(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/reservations/:id. Sellers see only their own.
func (h *ReservationHandler) Get(c echo.Context) error {
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

    rv, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    role := currentRole(c)
    if role == model.RoleSeller && rv.UserID != callerID {
        return writeError(c, repository.ErrReservationNotFound)
    }
    return c.JSON(http.StatusOK, rv)
}

// List handles GET /v1/reservations. Sellers get their own; staff can
// scope by ?event_id=.
func (h *ReservationHandler) List(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if currentRole(c) == model.RoleSeller {
        items, err := h.Reservations.ListByUser(ctx, callerID)
        if err != nil {
            return writeError(c, err)
        }
        return c.JSON(http.StatusOK, echo.Map{"items": items})
    }

    eventID, err := paramQueryID(c, "event_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
    }
    items, err := h.Reservations.ListByEvent(ctx, eventID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// notify publishes a broker notification best effort; a broker outage
// never fails the request that triggered it.
func (h *ReservationHandler) notify(kind string, rv *model.Reservation, ev *model.Event, slot *model.MarketSlot) {
    squareName := ""
    if sq, err := h.Squares.GetByID(context.Background(), ev.SquareID); err == nil {
        squareName = sq.Name
    }
    evt := queue.NotificationEvent{
        Kind:          kind,
        ReservationID: rv.ID,
        UserID:        rv.UserID,
        EventID:       ev.ID,
        EventName:     ev.Name,
        SquareName:    squareName,
        SlotNumber:    slot.Number,
        ReservedFrom:  rv.ReservedFrom.Format(time.RFC3339),
        ReservedTo:    rv.ReservedTo.Format(time.RFC3339),
        Price:         rv.FinalPrice.StringFixed(2),
        OccurredAt:    time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = queue_publisher.PublishNotification(ctx, h.Log, evt)
    }()
}
