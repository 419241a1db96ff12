package handlers

import (
	"net/http"

	"zoorequest/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RecordHandlers serves the per-pair record value on the animal/category
// association.
type RecordHandlers struct {
	assocRepo repositories.AnimalCategoryRepository
}

func NewRecordHandlers(assocRepo repositories.AnimalCategoryRepository) *RecordHandlers {
	return &RecordHandlers{assocRepo: assocRepo}
}

// UpdateRecordRequest carries the measured value for a pair.
type UpdateRecordRequest struct {
	Record *int `json:"record"`
}

// Update handles PUT /record/:animal_id/:category_id.
func (h *RecordHandlers) Update(c echo.Context) error {
	animalID, categoryID, err := pairParams(c)
	if err != nil {
		return err
	}

	var req UpdateRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.Record == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "record is required")
	}

	row, err := h.assocRepo.UpdateRecord(c.Request().Context(), animalID, categoryID, *req.Record)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, row)
}

// Delete handles DELETE /record/:animal_id/:category_id.
func (h *RecordHandlers) Delete(c echo.Context) error {
	animalID, categoryID, err := pairParams(c)
	if err != nil {
		return err
	}

	if err := h.assocRepo.Delete(c.Request().Context(), animalID, categoryID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func pairParams(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	animalID, err := uuid.Parse(c.Param("animal_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	categoryID, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return animalID, categoryID, nil
}
