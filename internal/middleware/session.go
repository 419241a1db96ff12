// Package middleware resolves the session cookie into a caller identity and
// gates routes by authentication and role.
package middleware

import (
	"net/http"

	"zoorequest/internal/common"
	"zoorequest/internal/services"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

type SessionMiddleware struct {
	auth services.AuthService
}

func NewSessionMiddleware(auth services.AuthService) *SessionMiddleware {
	return &SessionMiddleware{auth: auth}
}

// WithCaller resolves the session cookie to a user and stores it in the
// request context. Anonymous is a valid state: a missing or unknown token
// lets the request proceed without an identity, so that public endpoints
// work without a session.
func (m *SessionMiddleware) WithCaller() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := m.auth.ResolveCaller(c.Request().Context(), cookie.Value)
			if err != nil {
				return next(c)
			}

			ctx := common.WithCaller(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous callers with 403.
func (m *SessionMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := common.GetCallerFromContext(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusForbidden, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireManager rejects callers without the manager role with 403.
func (m *SessionMiddleware) RequireManager() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := common.GetCallerFromContext(c.Request().Context())
			if !ok || !caller.IsManager() {
				return echo.NewHTTPError(http.StatusForbidden, "manager role required")
			}
			return next(c)
		}
	}
}
