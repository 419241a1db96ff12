package handlers

import (
	"errors"
	"net/http"

	"zoorequest/internal/repositories"

	"github.com/labstack/echo/v4"
)

// httpError maps the repository sentinel errors onto HTTP statuses. Anything
// unrecognized becomes a 500 with a generic message; the real cause goes to
// the server log via echo's error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, repositories.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrConflict):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
