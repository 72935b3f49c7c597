package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/handler"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/middleware"
    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, while protected
// endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Issues a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout works with either a bearer token (all sessions) or a
    // refresh token in the body (single session), so it sits outside
    // the JWT middleware.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints. These
// return square, event and slot data for guests and apply no JWT or
// role middleware.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1/public", mw...)
    g.GET("/squares", p.ListSquares)
    g.GET("/events", p.ListUpcomingEvents)
    g.GET("/events/:id", p.GetEvent)
    // Slot list carries status and geometry so a storefront can render
    // the occupancy grid.
    g.GET("/events/:id/market-slots", p.ListEventSlots)
}

// RegisterManager registers the square-management endpoints under /v1.
// All routes require a valid JWT and an admin or squareManager role.
func RegisterManager(e *echo.Echo, m *handler.ManagerHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin, model.RoleSquareManager),
    )

    // ---- Squares ----
    g.POST("/squares", m.CreateSquare)
    g.GET("/squares", m.ListSquares)
    g.GET("/squares/:id", m.GetSquare)
    g.PUT("/squares/:id", m.UpdateSquare)
    g.PATCH("/squares/:id", m.UpdateSquare)
    g.DELETE("/squares/:id", m.DeleteSquare)

    // ---- Events ----
    g.POST("/events", m.CreateEvent)
    g.GET("/events/:id", m.GetEvent)
    g.GET("/squares/:id/events", m.ListEvents)
    g.PUT("/events/:id", m.UpdateEvent)
    g.PATCH("/events/:id", m.UpdateEvent)
    g.DELETE("/events/:id", m.DeleteEvent)

    // ---- Market slots ----
    g.POST("/market-slots", m.CreateSlot)
    g.GET("/market-slots/:id", m.GetSlot)
    g.GET("/events/:id/market-slots", m.ListSlots)
    g.PUT("/market-slots/:id", m.UpdateSlot)
    g.PATCH("/market-slots/:id", m.UpdateSlot)
    g.DELETE("/market-slots/:id", m.DeleteSlot)

    // ---- Product catalogue ----
    g.POST("/products", m.CreateProduct)
    g.GET("/products", m.ListProducts)
    g.PUT("/products/:id", m.UpdateProduct)
    g.DELETE("/products/:id", m.DeleteProduct)
    g.POST("/event-products", m.LinkProduct)
    g.GET("/events/:id/products", m.ListEventProducts)
    g.DELETE("/event-products/:id", m.UnlinkProduct)
}
