package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/booking"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// ProductRepo provides access to the products and event_products tables.
type ProductRepo struct {
    DB *sql.DB
}

// NewProductRepo constructs a ProductRepo.
func NewProductRepo(db *sql.DB) *ProductRepo {
    return &ProductRepo{DB: db}
}

// Create inserts a product into the catalogue.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO products (name, code) VALUES (?, ?)`, p.Name, p.Code)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID returns one active product or ErrProductNotFound.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
    var p model.Product
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, name, code, is_deleted, deleted_at, created_at
         FROM products WHERE id = ? AND is_deleted = 0`, id,
    ).Scan(&p.ID, &p.Name, &p.Code, &p.IsDeleted, &p.DeletedAt, &p.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrProductNotFound
    }
    if err != nil {
        return nil, err
    }
    return &p, nil
}

// List returns the active product catalogue ordered by code.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, name, code, is_deleted, deleted_at, created_at
         FROM products WHERE is_deleted = 0 ORDER BY code`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.Product
    for rows.Next() {
        var p model.Product
        if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.IsDeleted, &p.DeletedAt, &p.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, rows.Err()
}

// Update renames or recodes a product.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE products SET name = ?, code = ? WHERE id = ? AND is_deleted = 0`,
        p.Name, p.Code, p.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists bool
        if err := r.DB.QueryRowContext(ctx,
            `SELECT 1 FROM products WHERE id = ? AND is_deleted = 0`, p.ID,
        ).Scan(&exists); err == sql.ErrNoRows {
            return ErrProductNotFound
        } else if err != nil {
            return err
        }
        return ErrNoChange
    }
    return nil
}

// SoftDelete removes a product from the catalogue together with its
// event links.
func (r *ProductRepo) SoftDelete(ctx context.Context, id uint64) error {
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

    now := time.Now().UTC()
    res, err := tx.ExecContext(ctx,
        `UPDATE products SET is_deleted = 1, deleted_at = ? WHERE id = ? AND is_deleted = 0`,
        now, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrProductNotFound
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE event_products SET is_deleted = 1, deleted_at = ?
         WHERE product_id = ? AND is_deleted = 0`, now, id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ListLinkIntervals returns the selling windows of active links for one
// (product, event) pair, for overlap checks before linking.
func (r *ProductRepo) ListLinkIntervals(ctx context.Context, productID, eventID uint64) ([]booking.Interval, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, start_selling_date, end_selling_date FROM event_products
         WHERE product_id = ? AND event_id = ? AND is_deleted = 0`, productID, eventID)
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

// LinkToEvent creates an event-product link with a selling window.
func (r *ProductRepo) LinkToEvent(ctx context.Context, ep *model.EventProduct) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO event_products (product_id, event_id, start_selling_date, end_selling_date)
         VALUES (?, ?, ?, ?)`,
        ep.ProductID, ep.EventID, ep.StartSellingDate, ep.EndSellingDate)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// ListByEvent returns the active product links of an event.
func (r *ProductRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.EventProduct, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, product_id, event_id, start_selling_date, end_selling_date,
                is_deleted, deleted_at, created_at
         FROM event_products WHERE event_id = ? AND is_deleted = 0
         ORDER BY start_selling_date`, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.EventProduct
    for rows.Next() {
        var ep model.EventProduct
        if err := rows.Scan(&ep.ID, &ep.ProductID, &ep.EventID,
            &ep.StartSellingDate, &ep.EndSellingDate,
            &ep.IsDeleted, &ep.DeletedAt, &ep.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, ep)
    }
    return out, rows.Err()
}

// UnlinkFromEvent soft-deletes one event-product link.
func (r *ProductRepo) UnlinkFromEvent(ctx context.Context, linkID uint64) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE event_products SET is_deleted = 1, deleted_at = ?
         WHERE id = ? AND is_deleted = 0`,
        time.Now().UTC(), linkID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrProductNotFound
    }
    return nil
}
