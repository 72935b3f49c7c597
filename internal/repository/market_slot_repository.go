package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// MarketSlotRepo provides access to the market_slots table.
type MarketSlotRepo struct {
    DB *sql.DB
}

// NewMarketSlotRepo constructs a MarketSlotRepo.
func NewMarketSlotRepo(db *sql.DB) *MarketSlotRepo {
    return &MarketSlotRepo{DB: db}
}

const slotColumns = `id, event_id, status, number, base_size, available_extension,
        x, y, width, height, price_per_m2, is_deleted, deleted_at, created_at, updated_at`

func scanSlot(s rowScanner) (*model.MarketSlot, error) {
    var ms model.MarketSlot
    err := s.Scan(
        &ms.ID, &ms.EventID, &ms.Status, &ms.Number, &ms.BaseSize, &ms.AvailableExtension,
        &ms.X, &ms.Y, &ms.Width, &ms.Height, &ms.PricePerM2,
        &ms.IsDeleted, &ms.DeletedAt, &ms.CreatedAt, &ms.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &ms, nil
}

// CreateTx inserts a slot inside the caller's transaction, assigning the
// next per-event number. Numbers count deleted slots too, so a number is
// never reused within an event.
func (r *MarketSlotRepo) CreateTx(ctx context.Context, tx *sql.Tx, ms *model.MarketSlot) (uint64, error) {
    number, err := r.NextNumberTx(ctx, tx, ms.EventID)
    if err != nil {
        return 0, err
    }
    ms.Number = number

    res, err := tx.ExecContext(ctx,
        `INSERT INTO market_slots
            (event_id, status, number, base_size, available_extension, x, y, width, height, price_per_m2)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        ms.EventID, ms.Status, ms.Number, ms.BaseSize, ms.AvailableExtension,
        ms.X, ms.Y, ms.Width, ms.Height, ms.PricePerM2,
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

// NextNumberTx returns max(number)+1 across all slots of the event,
// including soft-deleted ones.
func (r *MarketSlotRepo) NextNumberTx(ctx context.Context, tx *sql.Tx, eventID uint64) (uint32, error) {
    var max sql.NullInt64
    err := tx.QueryRowContext(ctx,
        `SELECT MAX(number) FROM market_slots WHERE event_id = ?`, eventID,
    ).Scan(&max)
    if err != nil {
        return 0, err
    }
    if !max.Valid {
        return 1, nil
    }
    return uint32(max.Int64) + 1, nil
}

// GetByID returns one active slot or ErrSlotNotFound.
func (r *MarketSlotRepo) GetByID(ctx context.Context, id uint64) (*model.MarketSlot, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+slotColumns+` FROM market_slots WHERE id = ? AND is_deleted = 0`, id)
    ms, err := scanSlot(row)
    if err == sql.ErrNoRows {
        return nil, ErrSlotNotFound
    }
    return ms, err
}

// GetForUpdateTx locks the slot row for the duration of the transaction.
// Every reservation write goes through this lock, serializing concurrent
// attempts on the same slot so the overlap check cannot race.
func (r *MarketSlotRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.MarketSlot, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+slotColumns+` FROM market_slots WHERE id = ? AND is_deleted = 0 FOR UPDATE`, id)
    ms, err := scanSlot(row)
    if err == sql.ErrNoRows {
        return nil, ErrSlotNotFound
    }
    return ms, err
}

// ListByEvent returns the active slots of an event ordered by number.
func (r *MarketSlotRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.MarketSlot, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+slotColumns+` FROM market_slots
         WHERE event_id = ? AND is_deleted = 0
         ORDER BY number`, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.MarketSlot
    for rows.Next() {
        ms, err := scanSlot(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *ms)
    }
    return out, rows.Err()
}

// Update rewrites the mutable fields of a slot. Number and event are
// fixed at creation and never updated.
func (r *MarketSlotRepo) Update(ctx context.Context, ms *model.MarketSlot) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE market_slots
         SET status = ?, base_size = ?, available_extension = ?,
             x = ?, y = ?, width = ?, height = ?, price_per_m2 = ?
         WHERE id = ? AND is_deleted = 0`,
        ms.Status, ms.BaseSize, ms.AvailableExtension,
        ms.X, ms.Y, ms.Width, ms.Height, ms.PricePerM2, ms.ID,
    )
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists bool
        if err := r.DB.QueryRowContext(ctx,
            `SELECT 1 FROM market_slots WHERE id = ? AND is_deleted = 0`, ms.ID,
        ).Scan(&exists); err == sql.ErrNoRows {
            return ErrSlotNotFound
        } else if err != nil {
            return err
        }
        return ErrNoChange
    }
    return nil
}

// UpdateStatusTx flips the occupancy status inside the caller's
// transaction, together with the reservation write it belongs to.
func (r *MarketSlotRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE market_slots SET status = ? WHERE id = ? AND is_deleted = 0`, status, id)
    return err
}

// SoftDelete marks the slot deleted and cascades into its reservations.
func (r *MarketSlotRepo) SoftDelete(ctx context.Context, id uint64) error {
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

    if err := softDeleteSlotTx(ctx, tx, id, time.Now().UTC()); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
