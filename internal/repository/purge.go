package repository

import (
    "context"
    "database/sql"
    "time"
)

// purgeTables lists every soft-deleting table, children before parents,
// so foreign keys never block the hard delete.
var purgeTables = []string{
    "reservation_checks",
    "orders",
    "reservations",
    "market_slots",
    "event_products",
    "events",
    "squares",
    "products",
    "users",
}

// HardDeleteOlderThan permanently removes rows that were soft-deleted
// before the cutoff. Returns the total number of rows purged. Run
// periodically by the retention sweeper.
func HardDeleteOlderThan(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
    var total int64
    for _, table := range purgeTables {
        res, err := db.ExecContext(ctx,
            `DELETE FROM `+table+` WHERE is_deleted = 1 AND deleted_at < ?`, cutoff)
        if err != nil {
            return total, err
        }
        n, err := res.RowsAffected()
        if err != nil {
            return total, err
        }
        total += n
    }
    return total, nil
}
