package handler

import (
    "io"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
)

func newOrderHandlerWithMock(t *testing.T) (*OrderHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })

    log := logrus.New()
    log.SetOutput(io.Discard)
    return NewOrderHandler(db, repository.NewOrderRepo(db), repository.NewReservationRepo(db), log), mock
}

func orderRow(id, userID, reservationID uint64, status string) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows([]string{
        "id", "order_number", "user_id", "reservation_id", "status", "note",
        "price_to_pay", "payed_at", "is_deleted", "deleted_at", "created_at", "updated_at",
    }).AddRow(id, "8ba7f6c0", userID, reservationID, status, nil, "250.00", nil, false, nil, now, now)
}

// Deleting an order cancels its reservation instead of deleting it; the
// slot opens up again while the event is still running.
func TestDeleteOrderCancelsReservation(t *testing.T) {
    h, mock := newOrderHandlerWithMock(t)

    eventEnd := time.Now().UTC().Add(48 * time.Hour)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT id, order_number, user_id, reservation_id`).
        WithArgs(uint64(5)).
        WillReturnRows(orderRow(5, 1, 9, model.OrderStatusPayed))
    mock.ExpectExec(`UPDATE orders SET status = 'cancelled', is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`SELECT r.status, r.market_slot_id, e.end_at`).
        WithArgs(uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"status", "market_slot_id", "end_at"}).
            AddRow("reserved", uint64(7), eventEnd))
    mock.ExpectExec(`UPDATE reservations SET status = 'cancelled'`).
        WithArgs(uint64(9)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    // The order row is already soft-deleted; this touches nothing.
    mock.ExpectExec(`UPDATE orders SET status = 'cancelled'`).
        WithArgs(uint64(9)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(`SELECT COUNT`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
    mock.ExpectExec(`UPDATE market_slots SET status = 'empty'`).
        WithArgs(uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    e := echo.New()
    req := httptest.NewRequest(http.MethodDelete, "/v1/orders/5", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues("5")
    c.Set("user_id", uint64(1))
    c.Set("role", model.RoleAdmin)

    require.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    require.NoError(t, mock.ExpectationsWereMet())
}

// A cancelled order stays cancelled; its reservation was already
// cancelled and the slot released, so reviving it would bypass the
// overlap and quota checks.
func TestUpdateOrderRejectsRevival(t *testing.T) {
    h, mock := newOrderHandlerWithMock(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT id, order_number, user_id, reservation_id`).
        WithArgs(uint64(5)).
        WillReturnRows(orderRow(5, 1, 9, model.OrderStatusCancelled))
    mock.ExpectRollback()

    e := echo.New()
    req := httptest.NewRequest(http.MethodPut, "/v1/orders/5",
        strings.NewReader(`{"status":"pending"}`))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues("5")
    c.Set("user_id", uint64(1))
    c.Set("role", model.RoleAdmin)

    require.NoError(t, h.UpdateStatus(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    require.NoError(t, mock.ExpectationsWereMet())
}

// Cancelling via the status endpoint mirrors onto the reservation in the
// same transaction.
func TestUpdateOrderCancelledMirrorsReservation(t *testing.T) {
    h, mock := newOrderHandlerWithMock(t)

    eventEnd := time.Now().UTC().Add(48 * time.Hour)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT id, order_number, user_id, reservation_id`).
        WithArgs(uint64(5)).
        WillReturnRows(orderRow(5, 1, 9, model.OrderStatusPending))
    mock.ExpectExec(`UPDATE orders SET status = `).
        WithArgs(model.OrderStatusCancelled, nil, nil, uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`SELECT r.status, r.market_slot_id, e.end_at`).
        WithArgs(uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"status", "market_slot_id", "end_at"}).
            AddRow("reserved", uint64(7), eventEnd))
    mock.ExpectExec(`UPDATE reservations SET status = 'cancelled'`).
        WithArgs(uint64(9)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE orders SET status = 'cancelled'`).
        WithArgs(uint64(9)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`SELECT COUNT`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
    mock.ExpectExec(`UPDATE market_slots SET status = 'empty'`).
        WithArgs(uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()
    // The handler re-reads the order for the response body.
    mock.ExpectQuery(`SELECT id, order_number, user_id, reservation_id`).
        WithArgs(uint64(5)).
        WillReturnRows(orderRow(5, 1, 9, model.OrderStatusCancelled))

    e := echo.New()
    req := httptest.NewRequest(http.MethodPut, "/v1/orders/5",
        strings.NewReader(`{"status":"cancelled"}`))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues("5")
    c.Set("user_id", uint64(1))
    c.Set("role", model.RoleAdmin)

    require.NoError(t, h.UpdateStatus(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    require.NoError(t, mock.ExpectationsWereMet())
}
