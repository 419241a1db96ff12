package handlers

import (
	"net/http"
	"time"

	"zoorequest/internal/common"
	"zoorequest/internal/models"
	"zoorequest/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AnimalHandlers struct {
	lifecycle services.LifecycleService
}

func NewAnimalHandlers(lifecycle services.LifecycleService) *AnimalHandlers {
	return &AnimalHandlers{lifecycle: lifecycle}
}

// List handles GET /animal?status=&formation_start=&formation_end=.
// DELETED requests never appear.
func (h *AnimalHandlers) List(c echo.Context) error {
	var status *string
	if s := c.QueryParam("status"); s != "" {
		status = &s
	}

	formedAfter, err := parseTimeParam(c.QueryParam("formation_start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid formation_start")
	}
	formedBefore, err := parseTimeParam(c.QueryParam("formation_end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid formation_end")
	}

	animals, err := h.lifecycle.List(c.Request().Context(), status, formedAfter, formedBefore)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, animals)
}

// Get handles GET /animal/:id, returning the request with its associated
// categories and records.
func (h *AnimalHandlers) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	detail, err := h.lifecycle.GetFull(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Update handles PUT /animal/:id. Only the creator's own draft is editable.
func (h *AnimalHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()
	caller, ok := common.GetCallerFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	var upd models.AnimalUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	animal, err := h.lifecycle.UpdateDraft(ctx, caller, id, upd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, animal)
}

// Form handles PUT /animal/:id/form: DRAFT -> FORMED.
func (h *AnimalHandlers) Form(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	animal, err := h.lifecycle.Form(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, animal)
}

// ResolveRequest carries the terminal outcome for a formed request.
type ResolveRequest struct {
	Status string `json:"status"`
}

// Resolve handles PUT /animal/:id/resolve (manager only): FORMED ->
// COMPLETED or REJECTED.
func (h *AnimalHandlers) Resolve(c echo.Context) error {
	ctx := c.Request().Context()
	caller, ok := common.GetCallerFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	animal, err := h.lifecycle.Resolve(ctx, caller, id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, animal)
}

// Delete handles DELETE /animal/:id: DRAFT -> DELETED tombstone.
func (h *AnimalHandlers) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := h.lifecycle.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

// parseTimeParam accepts RFC 3339 timestamps and plain dates.
func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
