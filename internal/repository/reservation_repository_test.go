package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/require"
)

func TestCancelTxFreesSlotWhileEventRuns(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
    eventEnd := now.Add(48 * time.Hour)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT r.status, r.market_slot_id, e.end_at`).
        WithArgs(uint64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"status", "market_slot_id", "end_at"}).
            AddRow("reserved", uint64(7), eventEnd))
    mock.ExpectExec(`UPDATE reservations SET status = 'cancelled'`).
        WithArgs(uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE orders SET status = 'cancelled'`).
        WithArgs(uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`SELECT COUNT`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
    mock.ExpectExec(`UPDATE market_slots SET status = 'empty'`).
        WithArgs(uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    ctx := context.Background()
    tx, err := db.BeginTx(ctx, nil)
    require.NoError(t, err)

    repo := NewReservationRepo(db)
    require.NoError(t, repo.CancelTx(ctx, tx, 4, now))
    require.NoError(t, tx.Commit())
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTxKeepsSlotAfterEventEnd(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
    eventEnd := now.Add(-time.Hour)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT r.status, r.market_slot_id, e.end_at`).
        WithArgs(uint64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"status", "market_slot_id", "end_at"}).
            AddRow("reserved", uint64(7), eventEnd))
    mock.ExpectExec(`UPDATE reservations SET status = 'cancelled'`).
        WithArgs(uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE orders SET status = 'cancelled'`).
        WithArgs(uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    // No reads or writes on market_slots: the event has ended and its
    // grid keeps the final occupancy.
    mock.ExpectCommit()

    ctx := context.Background()
    tx, err := db.BeginTx(ctx, nil)
    require.NoError(t, err)

    repo := NewReservationRepo(db)
    require.NoError(t, repo.CancelTx(ctx, tx, 4, now))
    require.NoError(t, tx.Commit())
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTxAlreadyCancelled(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT r.status, r.market_slot_id, e.end_at`).
        WithArgs(uint64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"status", "market_slot_id", "end_at"}).
            AddRow("cancelled", uint64(7), now.Add(time.Hour)))
    mock.ExpectRollback()

    ctx := context.Background()
    tx, err := db.BeginTx(ctx, nil)
    require.NoError(t, err)

    repo := NewReservationRepo(db)
    require.ErrorIs(t, repo.CancelTx(ctx, tx, 4, now), ErrNoChange)
    require.NoError(t, tx.Rollback())
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTxMissingReservation(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT r.status, r.market_slot_id, e.end_at`).
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"status", "market_slot_id", "end_at"}))
    mock.ExpectRollback()

    ctx := context.Background()
    tx, err := db.BeginTx(ctx, nil)
    require.NoError(t, err)

    repo := NewReservationRepo(db)
    err = repo.CancelTx(ctx, tx, 99, time.Now().UTC())
    require.ErrorIs(t, err, ErrReservationNotFound)
    require.NoError(t, tx.Rollback())
    require.NoError(t, mock.ExpectationsWereMet())
}
