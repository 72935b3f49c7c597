package model

import "time"

// Product is a catalogue entry of goods that may be sold at events.
type Product struct {
    ID        uint64     // products.id
    Name      string     // products.name
    Code      uint32     // products.code
    IsDeleted bool       // products.is_deleted
    DeletedAt *time.Time // products.deleted_at (nullable)
    CreatedAt time.Time  // products.created_at
}

// EventProduct links a product to an event with a selling window.  Two
// active links for the same (product, event) pair must not have
// overlapping selling windows.
type EventProduct struct {
    ID               uint64     // event_products.id
    ProductID        uint64     // event_products.product_id
    EventID          uint64     // event_products.event_id
    StartSellingDate time.Time  // event_products.start_selling_date
    EndSellingDate   time.Time  // event_products.end_selling_date
    IsDeleted        bool       // event_products.is_deleted
    DeletedAt        *time.Time // event_products.deleted_at (nullable)
    CreatedAt        time.Time  // event_products.created_at
}
