package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Market slot occupancy states.
const (
    SlotStatusEmpty   = "empty"   // no active reservation
    SlotStatusBlocked = "blocked" // reservable only by privileged roles
    SlotStatusTaken   = "taken"   // held by an active reservation
)

// MarketSlot is a fixed-size, positioned subdivision of an event's grid.
// Its number is assigned per event at creation time (max existing number
// plus one) and is never supplied by clients.  A zero price per m² at
// creation means the slot inherits the event rate.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – owning event.
//  Status    – one of the SlotStatus* constants.
//  Number    – per-event sequence number, assigned automatically.
//  BaseSize  – base area in m² (> 0).
//  AvailableExtension – extra area a reservation may add (m², ≥ 0).
//  X, Y      – grid position of the top-left corner.
//  Width, Height – extent in grid cells.
//  PricePerM2 – rate per m²; inherited from the event when created as zero.
//  IsDeleted, DeletedAt – soft-delete flag and timestamp.
type MarketSlot struct {
    ID                 uint64          // market_slots.id
    EventID            uint64          // market_slots.event_id
    Status             string          // market_slots.status
    Number             uint32          // market_slots.number
    BaseSize           float64         // market_slots.base_size
    AvailableExtension float64         // market_slots.available_extension
    X                  int32           // market_slots.x
    Y                  int32           // market_slots.y
    Width              uint32          // market_slots.width
    Height             uint32          // market_slots.height
    PricePerM2         decimal.Decimal // market_slots.price_per_m2
    IsDeleted          bool            // market_slots.is_deleted
    DeletedAt          *time.Time      // market_slots.deleted_at (nullable)
    CreatedAt          time.Time       // market_slots.created_at
    UpdatedAt          time.Time       // market_slots.updated_at
}
