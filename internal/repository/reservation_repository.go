package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// ReservationRepo provides access to the reservations table. All write
// methods take a transaction: the handler opens one, locks the slot row,
// validates against the siblings read under that lock and only then
// inserts or updates, so two sellers racing for the same slot interval
// cannot both succeed.
type ReservationRepo struct {
    DB *sql.DB
}

// NewReservationRepo constructs a ReservationRepo.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
    return &ReservationRepo{DB: db}
}

const reservationColumns = `id, event_id, market_slot_id, user_id, used_extension,
        reserved_from, reserved_to, status, note, final_price,
        is_checked, last_checked_at, last_checked_by,
        is_deleted, deleted_at, created_at, updated_at`

func scanReservation(s rowScanner) (*model.Reservation, error) {
    var rv model.Reservation
    err := s.Scan(
        &rv.ID, &rv.EventID, &rv.MarketSlotID, &rv.UserID, &rv.UsedExtension,
        &rv.ReservedFrom, &rv.ReservedTo, &rv.Status, &rv.Note, &rv.FinalPrice,
        &rv.IsChecked, &rv.LastCheckedAt, &rv.LastCheckedBy,
        &rv.IsDeleted, &rv.DeletedAt, &rv.CreatedAt, &rv.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &rv, nil
}

// CreateTx inserts a validated reservation and returns its generated ID.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rv *model.Reservation) (uint64, error) {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO reservations
            (event_id, market_slot_id, user_id, used_extension,
             reserved_from, reserved_to, status, note, final_price)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        rv.EventID, rv.MarketSlotID, rv.UserID, rv.UsedExtension,
        rv.ReservedFrom, rv.ReservedTo, rv.Status, rv.Note, rv.FinalPrice,
    )
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// UpdateTx rewrites the mutable fields of a reservation.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, rv *model.Reservation) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE reservations
         SET used_extension = ?, reserved_from = ?, reserved_to = ?,
             status = ?, note = ?, final_price = ?
         WHERE id = ? AND is_deleted = 0`,
        rv.UsedExtension, rv.ReservedFrom, rv.ReservedTo,
        rv.Status, rv.Note, rv.FinalPrice, rv.ID,
    )
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists bool
        if err := tx.QueryRowContext(ctx,
            `SELECT 1 FROM reservations WHERE id = ? AND is_deleted = 0`, rv.ID,
        ).Scan(&exists); err == sql.ErrNoRows {
            return ErrReservationNotFound
        } else if err != nil {
            return err
        }
        return ErrNoChange
    }
    return nil
}

// GetByID returns one active reservation or ErrReservationNotFound.
// Ownership scoping (sellers see only their own) is the handler's job.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations WHERE id = ? AND is_deleted = 0`, id)
    rv, err := scanReservation(row)
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    return rv, err
}

// GetByIDTx is GetByID on an open transaction.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations WHERE id = ? AND is_deleted = 0`, id)
    rv, err := scanReservation(row)
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    return rv, err
}

// ListByEvent returns active reservations of an event ordered by start.
func (r *ReservationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Reservation, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations
         WHERE event_id = ? AND is_deleted = 0
         ORDER BY reserved_from`, eventID)
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// ListByUser returns the caller's own active reservations.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations
         WHERE user_id = ? AND is_deleted = 0
         ORDER BY reserved_from`, userID)
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
    defer rows.Close()
    var out []model.Reservation
    for rows.Next() {
        rv, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *rv)
    }
    return out, rows.Err()
}

// ListIntervalsForSlotTx returns the occupied intervals of a slot, read
// under the slot lock. Cancelled and deleted reservations do not occupy.
func (r *ReservationRepo) ListIntervalsForSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) ([]booking.Interval, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT id, reserved_from, reserved_to FROM reservations
         WHERE market_slot_id = ? AND status = 'reserved' AND is_deleted = 0`, slotID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []booking.Interval
    for rows.Next() {
        var iv booking.Interval
        if err := rows.Scan(&iv.ID, &iv.From, &iv.To); err != nil {
            return nil, err
        }
        out = append(out, iv)
    }
    return out, rows.Err()
}

// CountActiveByUserTx counts the user's live reservations for the quota
// check. A reservation counts while it is reserved, not deleted and has
// not ended yet. excludeID skips the reservation being updated.
func (r *ReservationRepo) CountActiveByUserTx(ctx context.Context, tx *sql.Tx, userID, excludeID uint64, now time.Time) (int, error) {
    var n int
    err := tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations
         WHERE user_id = ? AND id != ? AND status = 'reserved'
           AND is_deleted = 0 AND reserved_to > ?`,
        userID, excludeID, now,
    ).Scan(&n)
    return n, err
}

// CountActiveForSlotTx counts live reservations on a slot. Used after a
// cancel or delete to decide whether the slot reverts to empty.
func (r *ReservationRepo) CountActiveForSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) (int, error) {
    var n int
    err := tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations
         WHERE market_slot_id = ? AND status = 'reserved' AND is_deleted = 0`, slotID,
    ).Scan(&n)
    return n, err
}

// CancelTx marks the reservation cancelled and cancels its order. The
// slot reverts to empty only while the owning event is still running and
// no other live reservation holds it; after the event ended the grid is
// historical and keeps its final occupancy.
func (r *ReservationRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64, now time.Time) error {
    var status string
    var slotID uint64
    var eventEnd time.Time
    err := tx.QueryRowContext(ctx,
        `SELECT r.status, r.market_slot_id, e.end_at
         FROM reservations r
         JOIN events e ON e.id = r.event_id
         WHERE r.id = ? AND r.is_deleted = 0`, id,
    ).Scan(&status, &slotID, &eventEnd)
    if err == sql.ErrNoRows {
        return ErrReservationNotFound
    }
    if err != nil {
        return err
    }
    if status == model.ReservationStatusCancelled {
        return ErrNoChange
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE reservations SET status = 'cancelled' WHERE id = ?`, id); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE orders SET status = 'cancelled'
         WHERE reservation_id = ? AND is_deleted = 0 AND status != 'cancelled'`, id); err != nil {
        return err
    }
    if !eventEnd.After(now) {
        return nil
    }
    live, err := r.CountActiveForSlotTx(ctx, tx, slotID)
    if err != nil {
        return err
    }
    if live == 0 {
        if _, err := tx.ExecContext(ctx,
            `UPDATE market_slots SET status = 'empty'
             WHERE id = ? AND is_deleted = 0 AND status = 'taken'`, slotID); err != nil {
            return err
        }
    }
    return nil
}

// RecomputeCheckStatusTx refreshes the cached check fields from the
// newest non-deleted check of the reservation. With no checks left the
// cache is cleared.
func (r *ReservationRepo) RecomputeCheckStatusTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
    return recomputeCheckStatusTx(ctx, tx, reservationID)
}

func recomputeCheckStatusTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
    var checkedAt time.Time
    var checkerID sql.NullInt64
    err := tx.QueryRowContext(ctx,
        `SELECT checked_at, checker_id FROM reservation_checks
         WHERE reservation_id = ? AND is_deleted = 0
         ORDER BY checked_at DESC, id DESC
         LIMIT 1`, reservationID,
    ).Scan(&checkedAt, &checkerID)
    if err == sql.ErrNoRows {
        _, err = tx.ExecContext(ctx,
            `UPDATE reservations
             SET is_checked = 0, last_checked_at = NULL, last_checked_by = NULL
             WHERE id = ?`, reservationID)
        return err
    }
    if err != nil {
        return err
    }
    _, err = tx.ExecContext(ctx,
        `UPDATE reservations
         SET is_checked = 1, last_checked_at = ?, last_checked_by = ?
         WHERE id = ?`, checkedAt, checkerID, reservationID)
    return err
}

// SoftDelete marks the reservation deleted and cascades into its order
// and checks, freeing the slot when the event is still running.
func (r *ReservationRepo) SoftDelete(ctx context.Context, id uint64) error {
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

    if err := softDeleteReservationTx(ctx, tx, id, time.Now().UTC()); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
