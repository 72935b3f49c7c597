// Package worker hosts the background maintenance jobs that run
// alongside the HTTP server.
package worker

import (
    "context"
    "database/sql"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/repository"
)

// Sweeper runs periodic housekeeping: cancelling orders that stayed
// unpaid past their deadline and purging soft-deleted rows past the
// retention window.
type Sweeper struct {
    DB           *sql.DB
    Orders       *repository.OrderRepo
    Reservations *repository.ReservationRepo
    Log          *logrus.Logger

    UnpaidTTL time.Duration // how long a pending order may stay unpaid
    Retention time.Duration // how long soft-deleted rows are kept
    Interval  time.Duration // time between sweeps
}

func NewSweeper(db *sql.DB, or *repository.OrderRepo, rr *repository.ReservationRepo, log *logrus.Logger,
    unpaidTTL, retention, interval time.Duration) *Sweeper {
    if db == nil || or == nil || rr == nil || log == nil {
        panic("nil dependency passed to NewSweeper")
    }
    return &Sweeper{
        DB:           db,
        Orders:       or,
        Reservations: rr,
        Log:          log,
        UnpaidTTL:    unpaidTTL,
        Retention:    retention,
        Interval:     interval,
    }
}

// Run blocks and sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
    ticker := time.NewTicker(s.Interval)
    defer ticker.Stop()

    s.Log.WithField("interval", s.Interval.String()).Info("sweeper started")
    for {
        select {
        case <-ctx.Done():
            s.Log.Info("sweeper stopped")
            return
        case <-ticker.C:
            s.sweep(ctx)
        }
    }
}

func (s *Sweeper) sweep(ctx context.Context) {
    now := time.Now().UTC()
    if n, err := s.CancelUnpaidOrders(ctx, now); err != nil {
        s.Log.WithError(err).Warn("unpaid order sweep failed")
    } else if n > 0 {
        s.Log.WithField("cancelled", n).Info("cancelled unpaid orders")
    }
    if n, err := s.PurgeSoftDeleted(ctx, now); err != nil {
        s.Log.WithError(err).Warn("retention purge failed")
    } else if n > 0 {
        s.Log.WithField("purged", n).Info("purged soft-deleted rows")
    }
}

// CancelUnpaidOrders cancels every pending order created before
// now-UnpaidTTL. Each order is handled in its own transaction so one
// bad row does not block the rest; cancelling the reservation also
// cancels the order and frees the slot.
func (s *Sweeper) CancelUnpaidOrders(ctx context.Context, now time.Time) (int, error) {
    cutoff := now.Add(-s.UnpaidTTL)
    stale, err := s.Orders.ListUnpaidBefore(ctx, cutoff)
    if err != nil {
        return 0, err
    }

    cancelled := 0
    for _, o := range stale {
        if err := s.cancelOne(ctx, o.ReservationID, now); err != nil {
            s.Log.WithError(err).WithField("order_id", o.ID).Warn("failed to cancel stale order")
            continue
        }
        cancelled++
    }
    return cancelled, nil
}

func (s *Sweeper) cancelOne(ctx context.Context, reservationID uint64, now time.Time) error {
    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            tx.Rollback()
        }
    }()

    err = s.Reservations.CancelTx(ctx, tx, reservationID, now)
    if err != nil && err != repository.ErrNoChange {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// PurgeSoftDeleted hard-deletes rows whose soft-delete timestamp is
// older than the retention window.
func (s *Sweeper) PurgeSoftDeleted(ctx context.Context, now time.Time) (int64, error) {
    cutoff := now.Add(-s.Retention)
    return repository.HardDeleteOlderThan(ctx, s.DB, cutoff)
}
