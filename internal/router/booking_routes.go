package router

import (
    "github.com/labstack/echo/v4"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/handler"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/middleware"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// RegisterBooking registers the reservation and order endpoints under
// /v1. Sellers operate on their own records; admins and clerks on
// anyone's; checkers get read access for inspections. The finer
// ownership rules live in the handlers.
func RegisterBooking(e *echo.Echo, r *handler.ReservationHandler, o *handler.OrderHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleSeller, model.RoleAdmin, model.RoleCityClerk, model.RoleChecker),
    )

    // ---- Reservations ----
    g.POST("/reservations", r.Create)
    g.GET("/reservations", r.List)
    g.GET("/reservations/:id", r.Get)
    g.PUT("/reservations/:id", r.Update)
    g.PATCH("/reservations/:id", r.Update)
    g.POST("/reservations/:id/cancel", r.Cancel)

    // ---- Orders ----
    g.POST("/orders", o.Create)
    g.GET("/orders", o.List)
    g.GET("/orders/:id", o.Get)
    g.PUT("/orders/:id", o.UpdateStatus)
    g.PATCH("/orders/:id", o.UpdateStatus)

    // Hard-ish removals stay with admins and clerks.
    staff := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin, model.RoleCityClerk),
    )
    staff.DELETE("/reservations/:id", r.Delete)
    staff.DELETE("/orders/:id", o.Delete)
}

// RegisterChecks registers the inspection endpoints. Creating and
// removing checks is for admins and checkers; the per-reservation list
// is also available to clerks.
func RegisterChecks(e *echo.Echo, h *handler.CheckHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin, model.RoleChecker),
    )
    g.POST("/reservation-checks", h.Create)
    g.DELETE("/reservation-checks/:id", h.Delete)

    list := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin, model.RoleChecker, model.RoleCityClerk),
    )
    list.GET("/reservations/:id/checks", h.ListByReservation)
}
