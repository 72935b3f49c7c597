package repository

import (
    "context"
    "database/sql"
    "time"
)

// Cascade soft-delete propagation.  Deleting a parent marks it deleted and
// walks its direct children in order: Square → Events → (MarketSlots →
// Reservations) & EventProducts; Reservation → Order & ReservationChecks.
// Children whose deletion has side effects (slot status reversion, order
// cancellation, check-status recompute) are deleted row by row; leaf
// collections without side effects use a bulk soft-delete UPDATE.  All of
// it runs on the caller's transaction so a failure in one child collection
// rolls back the whole cascade instead of leaving a half-deleted graph.

// softDeleteSquareTx marks the square deleted and cascades into its events.
func softDeleteSquareTx(ctx context.Context, tx *sql.Tx, squareID uint64, now time.Time) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE squares SET is_deleted = 1, deleted_at = ? WHERE id = ? AND is_deleted = 0`,
        now, squareID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrSquareNotFound
    }
    rows, err := tx.QueryContext(ctx,
        `SELECT id FROM events WHERE square_id = ? AND is_deleted = 0`, squareID)
    if err != nil {
        return err
    }
    eventIDs, err := collectIDs(rows)
    if err != nil {
        return err
    }
    for _, id := range eventIDs {
        if err := softDeleteEventTx(ctx, tx, id, now); err != nil {
            return err
        }
    }
    return nil
}

// softDeleteEventTx marks the event deleted, cascades into its market
// slots and bulk soft-deletes its product links.
func softDeleteEventTx(ctx context.Context, tx *sql.Tx, eventID uint64, now time.Time) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE events SET is_deleted = 1, deleted_at = ? WHERE id = ? AND is_deleted = 0`,
        now, eventID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrEventNotFound
    }
    rows, err := tx.QueryContext(ctx,
        `SELECT id FROM market_slots WHERE event_id = ? AND is_deleted = 0`, eventID)
    if err != nil {
        return err
    }
    slotIDs, err := collectIDs(rows)
    if err != nil {
        return err
    }
    for _, id := range slotIDs {
        if err := softDeleteSlotTx(ctx, tx, id, now); err != nil {
            return err
        }
    }
    // Product links carry no side effects; one bulk update suffices.
    _, err = tx.ExecContext(ctx,
        `UPDATE event_products SET is_deleted = 1, deleted_at = ? WHERE event_id = ? AND is_deleted = 0`,
        now, eventID)
    return err
}

// softDeleteSlotTx marks the slot deleted and cascades into its
// reservations.
func softDeleteSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64, now time.Time) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE market_slots SET is_deleted = 1, deleted_at = ? WHERE id = ? AND is_deleted = 0`,
        now, slotID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrSlotNotFound
    }
    rows, err := tx.QueryContext(ctx,
        `SELECT id FROM reservations WHERE market_slot_id = ? AND is_deleted = 0`, slotID)
    if err != nil {
        return err
    }
    resIDs, err := collectIDs(rows)
    if err != nil {
        return err
    }
    for _, id := range resIDs {
        if err := softDeleteReservationTx(ctx, tx, id, now); err != nil {
            return err
        }
    }
    return nil
}

// softDeleteReservationTx marks the reservation deleted, cancels and
// soft-deletes its order, bulk soft-deletes its checks and frees the slot
// when the owning event is still running.
func softDeleteReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64, now time.Time) error {
    var slotID, eventID uint64
    var eventEnd time.Time
    err := tx.QueryRowContext(ctx,
        `SELECT r.market_slot_id, r.event_id, e.end_at
         FROM reservations r
         JOIN events e ON e.id = r.event_id
         WHERE r.id = ? AND r.is_deleted = 0`, reservationID,
    ).Scan(&slotID, &eventID, &eventEnd)
    if err != nil {
        if err == sql.ErrNoRows {
            return ErrReservationNotFound
        }
        return err
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE reservations SET is_deleted = 1, deleted_at = ? WHERE id = ?`,
        now, reservationID); err != nil {
        return err
    }
    // The order is cancelled, not just hidden, so its queue consumers and
    // listings agree with the reservation's fate.
    if _, err := tx.ExecContext(ctx,
        `UPDATE orders SET status = 'cancelled', is_deleted = 1, deleted_at = ?
         WHERE reservation_id = ? AND is_deleted = 0`,
        now, reservationID); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE reservation_checks SET is_deleted = 1, deleted_at = ?
         WHERE reservation_id = ? AND is_deleted = 0`,
        now, reservationID); err != nil {
        return err
    }
    if eventEnd.After(now) {
        if _, err := tx.ExecContext(ctx,
            `UPDATE market_slots SET status = 'empty' WHERE id = ? AND is_deleted = 0`,
            slotID); err != nil {
            return err
        }
    }
    return nil
}

// collectIDs drains a single-column id result set.
func collectIDs(rows *sql.Rows) ([]uint64, error) {
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}
