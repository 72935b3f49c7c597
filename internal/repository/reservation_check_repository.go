package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// ReservationCheckRepo provides access to the reservation_checks table.
// Creating or removing a check always recomputes the cached is_checked /
// last_checked_* fields on the parent reservation in the same
// transaction, so the cache can never disagree with the check rows.
type ReservationCheckRepo struct {
    DB *sql.DB
}

// NewReservationCheckRepo constructs a ReservationCheckRepo.
func NewReservationCheckRepo(db *sql.DB) *ReservationCheckRepo {
    return &ReservationCheckRepo{DB: db}
}

const checkColumns = `id, reservation_id, checker_id, checked_at, is_deleted, deleted_at`

func scanCheck(s rowScanner) (*model.ReservationCheck, error) {
    var c model.ReservationCheck
    err := s.Scan(&c.ID, &c.ReservationID, &c.CheckerID, &c.CheckedAt, &c.IsDeleted, &c.DeletedAt)
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// Create records an inspection of a reservation and refreshes the
// reservation's cached check status.
func (r *ReservationCheckRepo) Create(ctx context.Context, c *model.ReservationCheck) (uint64, error) {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            tx.Rollback()
        }
    }()

    var exists bool
    err = tx.QueryRowContext(ctx,
        `SELECT 1 FROM reservations WHERE id = ? AND is_deleted = 0`, c.ReservationID,
    ).Scan(&exists)
    if err == sql.ErrNoRows {
        return 0, ErrReservationNotFound
    }
    if err != nil {
        return 0, err
    }

    if c.CheckedAt.IsZero() {
        c.CheckedAt = time.Now().UTC()
    }
    res, err := tx.ExecContext(ctx,
        `INSERT INTO reservation_checks (reservation_id, checker_id, checked_at)
         VALUES (?, ?, ?)`,
        c.ReservationID, c.CheckerID, c.CheckedAt,
    )
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }

    if err := recomputeCheckStatusTx(ctx, tx, c.ReservationID); err != nil {
        return 0, err
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return uint64(id), nil
}

// GetByID returns one active check or ErrCheckNotFound.
func (r *ReservationCheckRepo) GetByID(ctx context.Context, id uint64) (*model.ReservationCheck, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+checkColumns+` FROM reservation_checks WHERE id = ? AND is_deleted = 0`, id)
    c, err := scanCheck(row)
    if err == sql.ErrNoRows {
        return nil, ErrCheckNotFound
    }
    return c, err
}

// ListByReservation returns the active checks of a reservation, newest
// first.
func (r *ReservationCheckRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.ReservationCheck, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+checkColumns+` FROM reservation_checks
         WHERE reservation_id = ? AND is_deleted = 0
         ORDER BY checked_at DESC, id DESC`, reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.ReservationCheck
    for rows.Next() {
        c, err := scanCheck(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *c)
    }
    return out, rows.Err()
}

// SoftDelete removes a check and refreshes the reservation's cached
// check status, which may clear it entirely.
func (r *ReservationCheckRepo) SoftDelete(ctx context.Context, id uint64) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            tx.Rollback()
        }
    }()

    var reservationID uint64
    err = tx.QueryRowContext(ctx,
        `SELECT reservation_id FROM reservation_checks WHERE id = ? AND is_deleted = 0`, id,
    ).Scan(&reservationID)
    if err == sql.ErrNoRows {
        return ErrCheckNotFound
    }
    if err != nil {
        return err
    }

    if _, err := tx.ExecContext(ctx,
        `UPDATE reservation_checks SET is_deleted = 1, deleted_at = ? WHERE id = ?`,
        time.Now().UTC(), id); err != nil {
        return err
    }
    if err := recomputeCheckStatusTx(ctx, tx, reservationID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
