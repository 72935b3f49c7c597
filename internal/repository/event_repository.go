package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// EventRepo provides access to the events table.
type EventRepo struct {
    DB *sql.DB
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sql.DB) *EventRepo {
    return &EventRepo{DB: db}
}

const eventColumns = `id, square_id, name, description, start_at, end_at,
        price_per_m2, is_deleted, deleted_at, created_at, updated_at`

func scanEvent(s rowScanner) (*model.Event, error) {
    var ev model.Event
    err := s.Scan(
        &ev.ID, &ev.SquareID, &ev.Name, &ev.Description, &ev.Start, &ev.End,
        &ev.PricePerM2, &ev.IsDeleted, &ev.DeletedAt, &ev.CreatedAt, &ev.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &ev, nil
}

// Create inserts a new event and returns its generated ID. Window
// validation against sibling events happens in the handler before this
// is called.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO events (square_id, name, description, start_at, end_at, price_per_m2)
         VALUES (?, ?, ?, ?, ?, ?)`,
        ev.SquareID, ev.Name, ev.Description, ev.Start, ev.End, ev.PricePerM2,
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

// GetByID returns one active event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+eventColumns+` FROM events WHERE id = ? AND is_deleted = 0`, id)
    ev, err := scanEvent(row)
    if err == sql.ErrNoRows {
        return nil, ErrEventNotFound
    }
    return ev, err
}

// GetByIDTx is GetByID on an open transaction, so reservation writes read
// the event under the same isolation as the slot lock.
func (r *EventRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Event, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+eventColumns+` FROM events WHERE id = ? AND is_deleted = 0`, id)
    ev, err := scanEvent(row)
    if err == sql.ErrNoRows {
        return nil, ErrEventNotFound
    }
    return ev, err
}

// ListBySquare returns active events on a square ordered by start.
func (r *EventRepo) ListBySquare(ctx context.Context, squareID uint64) ([]model.Event, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+eventColumns+` FROM events
         WHERE square_id = ? AND is_deleted = 0
         ORDER BY start_at`, squareID)
    if err != nil {
        return nil, err
    }
    return collectEvents(rows)
}

// ListUpcoming returns active events that have not ended yet.
func (r *EventRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+eventColumns+` FROM events
         WHERE end_at > ? AND is_deleted = 0
         ORDER BY start_at`, now)
    if err != nil {
        return nil, err
    }
    return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
    defer rows.Close()
    var out []model.Event
    for rows.Next() {
        ev, err := scanEvent(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *ev)
    }
    return out, rows.Err()
}

// ListIntervalsForSquare returns the windows of every active event on the
// square, for overlap checks when creating or moving an event.
func (r *EventRepo) ListIntervalsForSquare(ctx context.Context, squareID uint64) ([]booking.Interval, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, start_at, end_at FROM events WHERE square_id = ? AND is_deleted = 0`, squareID)
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

// Update rewrites the mutable fields of an event.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE events
         SET square_id = ?, name = ?, description = ?, start_at = ?, end_at = ?, price_per_m2 = ?
         WHERE id = ? AND is_deleted = 0`,
        ev.SquareID, ev.Name, ev.Description, ev.Start, ev.End, ev.PricePerM2, ev.ID,
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
            `SELECT 1 FROM events WHERE id = ? AND is_deleted = 0`, ev.ID,
        ).Scan(&exists); err == sql.ErrNoRows {
            return ErrEventNotFound
        } else if err != nil {
            return err
        }
        return ErrNoChange
    }
    return nil
}

// SoftDelete marks the event deleted and cascades into its slots,
// reservations, orders, checks and product links.
func (r *EventRepo) SoftDelete(ctx context.Context, id uint64) error {
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

    if err := softDeleteEventTx(ctx, tx, id, time.Now().UTC()); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
