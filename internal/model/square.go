package model

import "time"

// Square represents a physical marketplace location.  A square owns a
// spatial grid (rows × cols of cells of cellsize) on which market slots are
// positioned during events.  This struct corresponds to a row in the
// `squares` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the square.
//  Description – optional free text.
//  Street, City, PSC – address; PSC is a five-digit postal code.
//  Width, Height – real-world extent of the square in metres (> 0).
//  GridRows, GridCols – dimensions of the placement grid (> 0).
//  CellSize    – edge length of one grid cell (> 0).
//  IsDeleted, DeletedAt – soft-delete flag and timestamp.
type Square struct {
    ID          uint64     // squares.id
    Name        string     // squares.name
    Description *string    // squares.description (nullable)
    Street      string     // squares.street
    City        string     // squares.city
    PSC         uint32     // squares.psc
    Width       uint32     // squares.width
    Height      uint32     // squares.height
    GridRows    uint32     // squares.grid_rows
    GridCols    uint32     // squares.grid_cols
    CellSize    uint32     // squares.cellsize
    IsDeleted   bool       // squares.is_deleted
    DeletedAt   *time.Time // squares.deleted_at (nullable)
    CreatedAt   time.Time  // squares.created_at
    UpdatedAt   time.Time  // squares.updated_at
}
