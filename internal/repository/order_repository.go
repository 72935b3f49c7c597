package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/google/uuid"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// OrderRepo provides access to the orders table.
type OrderRepo struct {
    DB *sql.DB
}

// NewOrderRepo constructs an OrderRepo.
func NewOrderRepo(db *sql.DB) *OrderRepo {
    return &OrderRepo{DB: db}
}

const orderColumns = `id, order_number, user_id, reservation_id, status, note,
        price_to_pay, payed_at, is_deleted, deleted_at, created_at, updated_at`

func scanOrder(s rowScanner) (*model.Order, error) {
    var o model.Order
    err := s.Scan(
        &o.ID, &o.OrderNumber, &o.UserID, &o.ReservationID, &o.Status, &o.Note,
        &o.PriceToPay, &o.PayedAt, &o.IsDeleted, &o.DeletedAt, &o.CreatedAt, &o.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &o, nil
}

// CreateTx inserts an order for a reservation. A reservation may carry at
// most one non-deleted order; a second attempt returns ErrConflict. The
// order number is generated here when the caller left it empty.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) (uint64, error) {
    var exists bool
    err := tx.QueryRowContext(ctx,
        `SELECT 1 FROM orders WHERE reservation_id = ? AND is_deleted = 0`, o.ReservationID,
    ).Scan(&exists)
    if err != nil && err != sql.ErrNoRows {
        return 0, err
    }
    if err == nil {
        return 0, ErrConflict
    }

    if o.OrderNumber == "" {
        o.OrderNumber = uuid.NewString()
    }
    res, err := tx.ExecContext(ctx,
        `INSERT INTO orders (order_number, user_id, reservation_id, status, note, price_to_pay, payed_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
        o.OrderNumber, o.UserID, o.ReservationID, o.Status, o.Note, o.PriceToPay, o.PayedAt,
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

// GetByID returns one active order or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+orderColumns+` FROM orders WHERE id = ? AND is_deleted = 0`, id)
    o, err := scanOrder(row)
    if err == sql.ErrNoRows {
        return nil, ErrOrderNotFound
    }
    return o, err
}

// GetByIDTx is GetByID on an open transaction.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Order, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+orderColumns+` FROM orders WHERE id = ? AND is_deleted = 0`, id)
    o, err := scanOrder(row)
    if err == sql.ErrNoRows {
        return nil, ErrOrderNotFound
    }
    return o, err
}

// GetByReservation returns the active order of a reservation, if any.
func (r *OrderRepo) GetByReservation(ctx context.Context, reservationID uint64) (*model.Order, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+orderColumns+` FROM orders WHERE reservation_id = ? AND is_deleted = 0`, reservationID)
    o, err := scanOrder(row)
    if err == sql.ErrNoRows {
        return nil, ErrOrderNotFound
    }
    return o, err
}

// ListByUser returns the caller's own active orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+orderColumns+` FROM orders
         WHERE user_id = ? AND is_deleted = 0
         ORDER BY created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    return collectOrders(rows)
}

// List returns every active order, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+orderColumns+` FROM orders WHERE is_deleted = 0 ORDER BY created_at DESC`)
    if err != nil {
        return nil, err
    }
    return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]model.Order, error) {
    defer rows.Close()
    var out []model.Order
    for rows.Next() {
        o, err := scanOrder(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *o)
    }
    return out, rows.Err()
}

// UpdateTx rewrites status, note and payed_at. Mirroring the status onto
// the reservation is orchestrated by the handler in the same transaction.
func (r *OrderRepo) UpdateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE orders SET status = ?, note = ?, payed_at = ?
         WHERE id = ? AND is_deleted = 0`,
        o.Status, o.Note, o.PayedAt, o.ID,
    )
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists bool
        if err := tx.QueryRowContext(ctx,
            `SELECT 1 FROM orders WHERE id = ? AND is_deleted = 0`, o.ID,
        ).Scan(&exists); err == sql.ErrNoRows {
            return ErrOrderNotFound
        } else if err != nil {
            return err
        }
        return ErrNoChange
    }
    return nil
}

// ListUnpaidBefore returns pending orders created before the cutoff.
// The sweeper cancels these together with their reservations.
func (r *OrderRepo) ListUnpaidBefore(ctx context.Context, cutoff time.Time) ([]model.Order, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+orderColumns+` FROM orders
         WHERE status = 'pending' AND is_deleted = 0 AND created_at < ?
         ORDER BY created_at`, cutoff)
    if err != nil {
        return nil, err
    }
    return collectOrders(rows)
}

// SoftDeleteTx marks the order deleted and cancelled. Deleting an order
// cancels its reservation rather than deleting it, so the handler runs
// this together with ReservationRepo.CancelTx in one transaction.
func (r *OrderRepo) SoftDeleteTx(ctx context.Context, tx *sql.Tx, id uint64, now time.Time) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE orders SET status = 'cancelled', is_deleted = 1, deleted_at = ?
         WHERE id = ? AND is_deleted = 0`,
        now, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrOrderNotFound
    }
    return nil
}
