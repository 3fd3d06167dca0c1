// Package auth carries the request gates: bearer-token authentication and
// the admin / employee / permission role checks layered on top of it.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/service"
	"github.com/prasowlabs/moi-kanakku/internal/token"
)

const (
	ctxUserID   = "userID"
	ctxEmployee = "employee"
	ctxIsAdmin  = "isAdmin"
)

type Middleware struct {
	DB     *gorm.DB
	Tokens *token.Service
	Perms  *service.PermissionService
}

// Authenticate extracts the bearer token, verifies it against the session
// store, and attaches the principal id. A failure is terminal for the
// request: there is no retry or refresh at this layer, the caller must log
// in again.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw := ""
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			raw = parts[1]
		}
		if raw == "" {
			return respond.Fail(c, http.StatusUnauthorized, "Access denied. Please login to continue.")
		}

		principalID, err := m.Tokens.Verify(c.Request().Context(), raw)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrExpired):
				return respond.Fail(c, http.StatusUnauthorized, "Token expired. Please login to continue.")
			case errors.Is(err, token.ErrStale):
				return respond.Fail(c, http.StatusUnauthorized, "Session expired. Please login to continue.")
			default:
				return respond.Fail(c, http.StatusUnauthorized, "Invalid token. Please login to continue.")
			}
		}

		c.Set(ctxUserID, principalID)
		return next(c)
	}
}

// IsAdmin allows the request through when the authenticated id is an admin:
// an active admin-table row or a user row flagged admin.
func (m *Middleware) IsAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principalID, ok := PrincipalID(c)
		if !ok {
			return respond.Fail(c, http.StatusUnauthorized, "அணுகல் மறுக்கப்பட்டது. தயவுசெய்து தொடர உள்நுழையவும்.")
		}
		admin, err := service.IsAdminPrincipal(m.DB, principalID)
		if err != nil {
			return respond.Fail(c, http.StatusInternalServerError, "சர்வர் பிழை. தயவுசெய்து மீண்டும் முயற்சிக்கவும்.")
		}
		if !admin {
			return respond.Fail(c, http.StatusForbidden, "நீங்கள் நிர்வாகி அல்ல. இந்த செயலைச் செய்ய அனுமதி இல்லை.")
		}
		c.Set(ctxIsAdmin, true)
		return next(c)
	}
}

// IsEmployee requires the authenticated id to be an active employee.
// Status is checked here, at authorization time, not at token verification:
// a token issued before an employee was disabled still authenticates, but
// stops passing any employee-gated route.
func (m *Middleware) IsEmployee(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principalID, ok := PrincipalID(c)
		if !ok {
			return respond.Fail(c, http.StatusUnauthorized, "அணுகல் மறுக்கப்பட்டது. தயவுசெய்து தொடர உள்நுழையவும்.")
		}
		employee, err := service.ActiveEmployee(m.DB, principalID)
		if err != nil {
			return respond.Fail(c, http.StatusInternalServerError, "சர்வர் பிழை. தயவுசெய்து மீண்டும் முயற்சிக்கவும்.")
		}
		if employee == nil {
			return respond.Fail(c, http.StatusForbidden, "நீங்கள் பணியாளர் அல்ல. இந்த செயலைச் செய்ய அனுமதி இல்லை.")
		}
		c.Set(ctxEmployee, employee)
		return next(c)
	}
}

// HasEmployeePermission gates a route on a permission type. The function
// scope comes from the request (body, param, or query); absent means the
// wildcard scope. Check-then-act: the handler only runs after the check
// passes.
func (m *Middleware) HasEmployeePermission(permissionType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principalID, ok := PrincipalID(c)
			if !ok {
				return respond.Fail(c, http.StatusUnauthorized, "அணுகல் மறுக்கப்பட்டது.")
			}
			functionID := requestFunctionID(c)
			allowed, err := m.Perms.HasPermission(principalID, functionID, permissionType)
			if err != nil {
				return respond.Fail(c, http.StatusInternalServerError, "சர்வர் பிழை. தயவுசெய்து மீண்டும் முயற்சிக்கவும்.")
			}
			if !allowed {
				return respond.Fail(c, http.StatusForbidden, "இந்த செயலைச் செய்ய உங்களுக்கு அனுமதி இல்லை.")
			}
			return next(c)
		}
	}
}
