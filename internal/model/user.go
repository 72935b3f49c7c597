package model

import "time"

// Application roles.  The role claim carried in access tokens uses these
// exact strings; middleware and queryset scoping compare against them.
const (
    RoleAdmin         = "admin"         // full access to every record
    RoleSeller        = "seller"        // market vendors; see only their own reservations and orders
    RoleSquareManager = "squareManager" // manage squares, events, slots and products
    RoleCityClerk     = "cityClerk"     // clerk with admin-like access to bookings
    RoleChecker       = "checker"       // performs physical reservation checks
)

// User represents a row in the `users` table.  Besides credentials and the
// role, it carries the billing identity of a vendor (bank account, IČO,
// variable symbol) taken over from the registration form.  Users are
// soft-deleted like every other entity: a deactivated vendor keeps their
// reservation history but disappears from default queries.
//
// Fields:
//  ID            – primary key identifier.
//  Email         – unique email address (stored lower-cased).
//  PasswordHash  – bcrypt hashed password.
//  Role          – one of the Role* constants; empty until approved by a clerk.
//  AccountType   – "company" or "individual".
//  EmailVerified – whether the verification mail was confirmed.
//  PhoneNumber   – optional phone in international format.
//  VarSymbol     – payment variable symbol (nullable).
//  BankAccount   – Czech bank account string "[prefix-]number/bank" (nullable).
//  ICO           – company registration number, 8 digits (nullable).
//  City, Street, PSC – address fields.
//  IsDeleted, DeletedAt – soft-delete flag and timestamp.
type User struct {
    ID            uint64     // users.id
    Email         string     // users.email
    PasswordHash  string     // users.password_hash
    Role          string     // users.role
    AccountType   string     // users.account_type
    EmailVerified bool       // users.email_verified
    PhoneNumber   *string    // users.phone_number (nullable)
    VarSymbol     *uint64    // users.var_symbol (nullable)
    BankAccount   *string    // users.bank_account (nullable)
    ICO           *string    // users.ico (nullable)
    City          *string    // users.city (nullable)
    Street        *string    // users.street (nullable)
    PSC           *string    // users.psc (nullable)
    IsDeleted     bool       // users.is_deleted
    DeletedAt     *time.Time // users.deleted_at (nullable)
    CreatedAt     time.Time  // users.created_at
    UpdatedAt     time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
