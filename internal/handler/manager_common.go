package handler

import (
    "database/sql"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
)

// ManagerHandler bundles the repositories square managers use to run
// squares, events, market slots and the product catalogue. The raw DB
// handle is needed for slot creation, which assigns the per-event slot
// number inside a transaction.
type ManagerHandler struct {
    DB       *sql.DB
    Squares  *repository.SquareRepo
    Events   *repository.EventRepo
    Slots    *repository.MarketSlotRepo
    Products *repository.ProductRepo
}

// NewManagerHandler constructs a ManagerHandler and panics if any
// dependency is nil.
func NewManagerHandler(db *sql.DB, sq *repository.SquareRepo, ev *repository.EventRepo, sl *repository.MarketSlotRepo, pr *repository.ProductRepo) *ManagerHandler {
    if db == nil || sq == nil || ev == nil || sl == nil || pr == nil {
        panic("nil dependency passed to NewManagerHandler")
    }
    return &ManagerHandler{DB: db, Squares: sq, Events: ev, Slots: sl, Products: pr}
}
