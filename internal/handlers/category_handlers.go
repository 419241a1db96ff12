package handlers

import (
	"net/http"

	"zoorequest/internal/common"
	"zoorequest/internal/models"
	"zoorequest/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CategoryHandlers serves the catalog surface, including the add-to-cart
// entry point that feeds the request lifecycle.
type CategoryHandlers struct {
	catalog   services.CatalogService
	lifecycle services.LifecycleService
}

func NewCategoryHandlers(catalog services.CatalogService, lifecycle services.LifecycleService) *CategoryHandlers {
	return &CategoryHandlers{catalog: catalog, lifecycle: lifecycle}
}

// List handles GET /category. Public: anonymous callers get an empty cart.
func (h *CategoryHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	caller, _ := common.GetCallerFromContext(ctx)

	listing, err := h.catalog.List(ctx, c.QueryParam("category_title"), caller)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, listing)
}

// CreateCategoryRequest is the category creation payload.
type CreateCategoryRequest struct {
	Title       string  `json:"title"`
	Measurement *string `json:"measurement"`
	Description *string `json:"description"`
}

// Create handles POST /category (manager only).
func (h *CategoryHandlers) Create(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	category, err := h.catalog.Create(c.Request().Context(), req.Title, req.Measurement, req.Description)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// Get handles GET /category/:id.
func (h *CategoryHandlers) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	category, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// Update handles PUT /category/:id (manager only). Only active categories
// can be mutated.
func (h *CategoryHandlers) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	var upd models.CategoryUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	category, err := h.catalog.Update(c.Request().Context(), id, upd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// AddImage handles POST /category/:id/add_image (manager only, multipart
// field "photo").
func (h *CategoryHandlers) AddImage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no photo in request")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable photo")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if err := h.catalog.AttachPhoto(c.Request().Context(), id, file.Filename, contentType, src, file.Size); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

// Delete handles DELETE /category/:id (manager only). Soft delete: the photo
// blob goes first, then is_active flips.
func (h *CategoryHandlers) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := h.catalog.SoftDelete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

// AddToCart handles POST /category/:id/add (authenticated). Reuses the
// caller's draft request or opens one, then attaches the category.
func (h *CategoryHandlers) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	caller, ok := common.GetCallerFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	animalID, err := h.lifecycle.AddCategoryToCart(ctx, caller, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"animal_id": animalID})
}
