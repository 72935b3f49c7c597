package middleware

// identity.go holds the helpers the rate limiter and cache use to key
// state per caller without depending on a fully parsed JWT.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user ID for
// bucket keys, or "anon" for unauthenticated requests. JWTAuth stores
// the sub claim as whatever type the JWT decoder produced, so every
// plausible shape is handled.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case nil:
        return "anon"
    case string:
        if v == "" {
            return "anon"
        }
        return v
    case float64:
        return fmt.Sprintf("%.0f", v)
    case uint64:
        return fmt.Sprintf("%d", v)
    case int64:
        return fmt.Sprintf("%d", v)
    default:
        return "anon"
    }
}
