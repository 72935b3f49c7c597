package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/require"
)

// Deleting a square must walk the whole graph: its event, the event's
// slot and product links, the slot's reservation and the reservation's
// order and checks, all in one transaction.
func TestSquareSoftDeleteCascades(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    eventEnd := time.Now().UTC().Add(24 * time.Hour)

    mock.ExpectBegin()
    mock.ExpectExec(`UPDATE squares SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(1)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`SELECT id FROM events WHERE square_id`).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint64(2)))
    mock.ExpectExec(`UPDATE events SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`SELECT id FROM market_slots WHERE event_id`).
        WithArgs(uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint64(3)))
    mock.ExpectExec(`UPDATE market_slots SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`SELECT id FROM reservations WHERE market_slot_id`).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint64(4)))
    mock.ExpectQuery(`SELECT r.market_slot_id, r.event_id, e.end_at`).
        WithArgs(uint64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"market_slot_id", "event_id", "end_at"}).
            AddRow(uint64(3), uint64(2), eventEnd))
    mock.ExpectExec(`UPDATE reservations SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE orders SET status = 'cancelled', is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE reservation_checks SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE market_slots SET status = 'empty'`).
        WithArgs(uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE event_products SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    repo := NewSquareRepo(db)
    require.NoError(t, repo.SoftDelete(context.Background(), 1))
    require.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a reservation after its event ended keeps the slot's final
// occupancy; only the reservation, its order and its checks are touched.
func TestReservationSoftDeleteKeepsSlotAfterEventEnd(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    eventEnd := time.Now().UTC().Add(-24 * time.Hour)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT r.market_slot_id, r.event_id, e.end_at`).
        WithArgs(uint64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"market_slot_id", "event_id", "end_at"}).
            AddRow(uint64(3), uint64(2), eventEnd))
    mock.ExpectExec(`UPDATE reservations SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE orders SET status = 'cancelled', is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE reservation_checks SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    repo := NewReservationRepo(db)
    require.NoError(t, repo.SoftDelete(context.Background(), 4))
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestSquareSoftDeleteMissing(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec(`UPDATE squares SET is_deleted = 1`).
        WithArgs(sqlmock.AnyArg(), uint64(42)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    repo := NewSquareRepo(db)
    require.ErrorIs(t, repo.SoftDelete(context.Background(), 42), ErrSquareNotFound)
    require.NoError(t, mock.ExpectationsWereMet())
}
