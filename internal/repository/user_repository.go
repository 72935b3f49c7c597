package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// UserRepo provides access to the users table.
type UserRepo struct {
    DB *sql.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
    return &UserRepo{DB: db}
}

const userColumns = `id, email, password_hash, role, account_type, email_verified,
        phone_number, var_symbol, bank_account, ico, city, street, psc,
        is_deleted, deleted_at, created_at, updated_at`

func scanUser(s rowScanner) (*model.User, error) {
    var u model.User
    err := s.Scan(
        &u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.AccountType, &u.EmailVerified,
        &u.PhoneNumber, &u.VarSymbol, &u.BankAccount, &u.ICO, &u.City, &u.Street, &u.PSC,
        &u.IsDeleted, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &u, nil
}

// Create inserts a new user. The email is stored lower-cased so lookups
// are case-insensitive.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO users
            (email, password_hash, role, account_type, email_verified,
             phone_number, var_symbol, bank_account, ico, city, street, psc)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        strings.ToLower(u.Email), u.PasswordHash, u.Role, u.AccountType, u.EmailVerified,
        u.PhoneNumber, u.VarSymbol, u.BankAccount, u.ICO, u.City, u.Street, u.PSC,
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

// GetByEmail finds an active user by email. Returns (nil, nil) when no
// such user exists so login can answer with a generic failure.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+userColumns+` FROM users WHERE email = ? AND is_deleted = 0`,
        strings.ToLower(email))
    u, err := scanUser(row)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    return u, err
}

// GetByID returns one active user or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+userColumns+` FROM users WHERE id = ? AND is_deleted = 0`, id)
    u, err := scanUser(row)
    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    return u, err
}

// UpdateProfile rewrites the contact and billing fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE users
         SET phone_number = ?, var_symbol = ?, bank_account = ?, ico = ?,
             city = ?, street = ?, psc = ?
         WHERE id = ? AND is_deleted = 0`,
        u.PhoneNumber, u.VarSymbol, u.BankAccount, u.ICO,
        u.City, u.Street, u.PSC, u.ID,
    )
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists bool
        if err := r.DB.QueryRowContext(ctx,
            `SELECT 1 FROM users WHERE id = ? AND is_deleted = 0`, u.ID,
        ).Scan(&exists); err == sql.ErrNoRows {
            return ErrUserNotFound
        } else if err != nil {
            return err
        }
        return ErrNoChange
    }
    return nil
}

// UpdateRole assigns a role. Used by clerks when approving a registration.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE users SET role = ? WHERE id = ? AND is_deleted = 0`, role, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrUserNotFound
    }
    return nil
}

// MarkEmailVerified records a confirmed verification mail.
func (r *UserRepo) MarkEmailVerified(ctx context.Context, id uint64) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE users SET email_verified = 1 WHERE id = ? AND is_deleted = 0`, id)
    return err
}

// SoftDelete deactivates a user. Their reservations and orders remain
// for the record and the sweeper purges everything after retention.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE users SET is_deleted = 1, deleted_at = ? WHERE id = ? AND is_deleted = 0`,
        time.Now().UTC(), id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrUserNotFound
    }
    return nil
}
