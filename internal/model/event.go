package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Event is a time-boxed occupation of one square.  Start and end are
// truncated to minute resolution and no two active events on the same
// square may overlap.  The event's price per m² is the default rate for
// slots that do not override it.
//
// Fields:
//  ID          – primary key identifier.
//  SquareID    – square the event takes place on.
//  Name        – event name.
//  Description – optional free text.
//  Start, End  – event window (End > Start, minute precision).
//  PricePerM2  – default rate per m² (≥ 0).
//  IsDeleted, DeletedAt – soft-delete flag and timestamp.
type Event struct {
    ID          uint64          // events.id
    SquareID    uint64          // events.square_id
    Name        string          // events.name
    Description *string         // events.description (nullable)
    Start       time.Time       // events.start_at
    End         time.Time       // events.end_at
    PricePerM2  decimal.Decimal // events.price_per_m2
    IsDeleted   bool            // events.is_deleted
    DeletedAt   *time.Time      // events.deleted_at (nullable)
    CreatedAt   time.Time       // events.created_at
    UpdatedAt   time.Time       // events.updated_at
}
