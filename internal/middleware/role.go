package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// RequireRole aborts the request with 403 unless the authenticated
// user's role claim is one of the given roles. It assumes JWTAuth has
// already stored the role in the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            v := c.Get("role")
            role, ok := v.(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// IsPrivileged reports whether the context's role may set final prices
// and reserve blocked slots.
func IsPrivileged(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == model.RoleAdmin || role == model.RoleCityClerk
}
