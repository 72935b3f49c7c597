package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
    c, rec := newTestContext(t)
    c.Set("role", model.RoleSquareManager)

    called := false
    h := RequireRole(model.RoleAdmin, model.RoleSquareManager)(func(c echo.Context) error {
        called = true
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.True(t, called)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
    c, rec := newTestContext(t)
    c.Set("role", model.RoleSeller)

    h := RequireRole(model.RoleAdmin, model.RoleSquareManager)(func(c echo.Context) error {
        t.Fatal("handler must not run")
        return nil
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingClaim(t *testing.T) {
    c, rec := newTestContext(t)

    h := RequireRole(model.RoleAdmin)(func(c echo.Context) error {
        t.Fatal("handler must not run")
        return nil
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIsPrivileged(t *testing.T) {
    cases := map[string]bool{
        model.RoleAdmin:         true,
        model.RoleCityClerk:     true,
        model.RoleSeller:        false,
        model.RoleSquareManager: false,
        model.RoleChecker:       false,
    }
    for role, want := range cases {
        c, _ := newTestContext(t)
        c.Set("role", role)
        assert.Equal(t, want, IsPrivileged(c), "role %s", role)
    }

    c, _ := newTestContext(t)
    assert.False(t, IsPrivileged(c), "no role claim")
}

func TestCurrentUserIDShapes(t *testing.T) {
    cases := []struct {
        name string
        val  any
        want string
    }{
        {"missing", nil, "anon"},
        {"empty string", "", "anon"},
        {"string", "42", "42"},
        {"float64", float64(42), "42"},
        {"uint64", uint64(7), "7"},
        {"int64", int64(7), "7"},
        {"unexpected type", struct{}{}, "anon"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c, _ := newTestContext(t)
            if tc.val != nil {
                c.Set("user_id", tc.val)
            }
            assert.Equal(t, tc.want, currentUserID(c))
        })
    }
}
