package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows and lets the scan
// helpers serve both single-row and list queries.
type rowScanner interface {
    Scan(dest ...any) error
}

// SquareRepo provides access to the squares table.
type SquareRepo struct {
    DB *sql.DB
}

// NewSquareRepo constructs a SquareRepo.
func NewSquareRepo(db *sql.DB) *SquareRepo {
    return &SquareRepo{DB: db}
}

const squareColumns = `id, name, description, street, city, psc,
        width, height, grid_rows, grid_cols, cellsize,
        is_deleted, deleted_at, created_at, updated_at`

func scanSquare(s rowScanner) (*model.Square, error) {
    var sq model.Square
    err := s.Scan(
        &sq.ID, &sq.Name, &sq.Description, &sq.Street, &sq.City, &sq.PSC,
        &sq.Width, &sq.Height, &sq.GridRows, &sq.GridCols, &sq.CellSize,
        &sq.IsDeleted, &sq.DeletedAt, &sq.CreatedAt, &sq.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &sq, nil
}

// Create inserts a new square and returns its generated ID.
func (r *SquareRepo) Create(ctx context.Context, sq *model.Square) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO squares
            (name, description, street, city, psc, width, height, grid_rows, grid_cols, cellsize)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        sq.Name, sq.Description, sq.Street, sq.City, sq.PSC,
        sq.Width, sq.Height, sq.GridRows, sq.GridCols, sq.CellSize,
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

// GetByID returns one active square or ErrSquareNotFound.
func (r *SquareRepo) GetByID(ctx context.Context, id uint64) (*model.Square, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+squareColumns+` FROM squares WHERE id = ? AND is_deleted = 0`, id)
    sq, err := scanSquare(row)
    if err == sql.ErrNoRows {
        return nil, ErrSquareNotFound
    }
    return sq, err
}

// List returns all active squares, optionally filtered by city.
func (r *SquareRepo) List(ctx context.Context, city string) ([]model.Square, error) {
    query := `SELECT ` + squareColumns + ` FROM squares WHERE is_deleted = 0`
    args := []any{}
    if city != "" {
        query += ` AND city = ?`
        args = append(args, city)
    }
    query += ` ORDER BY name`

    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.Square
    for rows.Next() {
        sq, err := scanSquare(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *sq)
    }
    return out, rows.Err()
}

// Update rewrites the mutable fields of a square. Returns
// ErrSquareNotFound when no active row matches and ErrNoChange when the
// row matched but nothing differed.
func (r *SquareRepo) Update(ctx context.Context, sq *model.Square) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE squares
         SET name = ?, description = ?, street = ?, city = ?, psc = ?,
             width = ?, height = ?, grid_rows = ?, grid_cols = ?, cellsize = ?
         WHERE id = ? AND is_deleted = 0`,
        sq.Name, sq.Description, sq.Street, sq.City, sq.PSC,
        sq.Width, sq.Height, sq.GridRows, sq.GridCols, sq.CellSize,
        sq.ID,
    )
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // MySQL reports zero affected rows both for a missing row and for
        // an identical update, so re-check existence.
        var exists bool
        if err := r.DB.QueryRowContext(ctx,
            `SELECT 1 FROM squares WHERE id = ? AND is_deleted = 0`, sq.ID,
        ).Scan(&exists); err == sql.ErrNoRows {
            return ErrSquareNotFound
        } else if err != nil {
            return err
        }
        return ErrNoChange
    }
    return nil
}

// SoftDelete marks the square deleted and cascades into every dependent
// event, slot, reservation, order and check in one transaction.
func (r *SquareRepo) SoftDelete(ctx context.Context, id uint64) error {
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

    if err := softDeleteSquareTx(ctx, tx, id, time.Now().UTC()); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
