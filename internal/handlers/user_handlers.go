package handlers

import (
	"net/http"

	"zoorequest/internal/common"
	"zoorequest/internal/middleware"
	"zoorequest/internal/services"

	"github.com/labstack/echo/v4"
)

type UserHandlers struct {
	auth services.AuthService
}

func NewUserHandlers(auth services.AuthService) *UserHandlers {
	return &UserHandlers{auth: auth}
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Register handles POST /users.
func (h *UserHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, err := h.auth.Register(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /users/login. On success the session token travels back
// as a lax same-site cookie; the body stays empty.
func (h *UserHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	token, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Logout handles POST /users/logout. A missing or unknown token is a 403.
func (h *UserHandlers) Logout(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusForbidden, "no active session")
	}

	if err := h.auth.Logout(c.Request().Context(), cookie.Value); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "no active session")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// UpdateProfileRequest carries the mutable account fields.
type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Update handles PUT /users (authenticated).
func (h *UserHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()
	caller, ok := common.GetCallerFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, err := h.auth.UpdateProfile(ctx, caller.ID, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
