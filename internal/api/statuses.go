package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shipnotes/shipnotes/internal/models"
	"github.com/shipnotes/shipnotes/internal/services/status"
)

type createStatusRequest struct {
	Name       string  `json:"name"`
	CategoryID *string `json:"category_id"`
}

type renameStatusRequest struct {
	Name string `json:"name"`
}

type reorderStatusRequest struct {
	TargetID *int   `json:"target_id"`
	Position string `json:"position"` // before or after
}

type setCategoryRequest struct {
	CategoryID *string `json:"category_id"`
}

type statusesResponse struct {
	Statuses []*models.Status `json:"statuses"`
}

type columnsResponse struct {
	Columns []*models.Column `json:"columns"`
}

type mappingsResponse struct {
	Mappings []*models.CategoryMapping `json:"mappings"`
}

func (h *handlers) listStatuses(c echo.Context) error {
	statuses, err := h.Statuses.ListStatuses(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, statusesResponse{Statuses: statuses})
}

func (h *handlers) getStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "status id")
	}
	st, err := h.Statuses.GetStatus(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *handlers) createStatus(c echo.Context) error {
	var req createStatusRequest
	if err := decodeBody(c, h.MaxBodyBytes, &req); err != nil {
		return invalidBody(c, err)
	}
	st, err := h.Statuses.CreateStatus(c.Request().Context(), status.CreateStatusRequest{
		Name:       req.Name,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *handlers) renameStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "status id")
	}
	var req renameStatusRequest
	if err := decodeBody(c, h.MaxBodyBytes, &req); err != nil {
		return invalidBody(c, err)
	}
	st, err := h.Statuses.RenameStatus(c.Request().Context(), id, req.Name)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *handlers) deleteStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "status id")
	}
	reassignTo, ok := optionalIntQuery(c, "reassign_to")
	if !ok {
		return invalidID(c, "reassign_to")
	}
	if err := h.Statuses.DeleteStatus(c.Request().Context(), id, status.DeleteStatusRequest{ReassignTo: reassignTo}); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) reorderStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "status id")
	}
	var req reorderStatusRequest
	if err := decodeBody(c, h.MaxBodyBytes, &req); err != nil {
		return invalidBody(c, err)
	}
	if req.TargetID == nil {
		return respondError(c, http.StatusBadRequest, "invalid_body", "target_id is required")
	}
	placement, err := models.ParsePlacement(req.Position)
	if err != nil {
		return writeError(c, h.log, status.ErrInvalidPlacement)
	}
	ordered, err := h.Statuses.ReorderStatus(c.Request().Context(), id, *req.TargetID, placement)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, statusesResponse{Statuses: ordered})
}

func (h *handlers) getCategoryMapping(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "status id")
	}
	m, err := h.Statuses.GetCategoryMapping(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *handlers) setCategoryMapping(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "status id")
	}
	var req setCategoryRequest
	if err := decodeBody(c, h.MaxBodyBytes, &req); err != nil {
		return invalidBody(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Statuses.SetCategoryMapping(ctx, id, req.CategoryID); err != nil {
		return writeError(c, h.log, err)
	}
	if req.CategoryID == nil {
		return c.NoContent(http.StatusNoContent)
	}
	m, err := h.Statuses.GetCategoryMapping(ctx, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *handlers) clearCategoryMapping(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "status id")
	}
	if err := h.Statuses.SetCategoryMapping(c.Request().Context(), id, nil); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) listMappings(c echo.Context) error {
	mappings, err := h.Statuses.ListCategoryMappings(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, mappingsResponse{Mappings: mappings})
}

func (h *handlers) listColumns(c echo.Context) error {
	columns, err := h.Columns.ListColumns(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, columnsResponse{Columns: columns})
}
