package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shipnotes/shipnotes/internal/models"
	"github.com/shipnotes/shipnotes/internal/services/event"
)

type createEventRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	StatusID int    `json:"status_id"`
}

type updateEventRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type moveEventRequest struct {
	StatusID int `json:"status_id"`
}

type eventsResponse struct {
	Events []*models.Event `json:"events"`
}

func (h *handlers) listEvents(c echo.Context) error {
	statusID, ok := optionalIntQuery(c, "status_id")
	if !ok {
		return invalidID(c, "status_id")
	}
	events, err := h.Events.ListEvents(c.Request().Context(), event.ListEventsRequest{StatusID: statusID})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, eventsResponse{Events: events})
}

func (h *handlers) getEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "event id")
	}
	e, err := h.Events.GetEvent(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *handlers) createEvent(c echo.Context) error {
	var req createEventRequest
	if err := decodeBody(c, h.MaxBodyBytes, &req); err != nil {
		return invalidBody(c, err)
	}
	e, err := h.Events.CreateEvent(c.Request().Context(), event.CreateEventRequest{
		Title:    req.Title,
		Content:  req.Content,
		StatusID: req.StatusID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *handlers) updateEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "event id")
	}
	var req updateEventRequest
	if err := decodeBody(c, h.MaxBodyBytes, &req); err != nil {
		return invalidBody(c, err)
	}
	e, err := h.Events.UpdateEvent(c.Request().Context(), id, event.UpdateEventRequest{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *handlers) moveEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "event id")
	}
	var req moveEventRequest
	if err := decodeBody(c, h.MaxBodyBytes, &req); err != nil {
		return invalidBody(c, err)
	}
	e, err := h.Events.MoveEvent(c.Request().Context(), id, req.StatusID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *handlers) deleteEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "event id")
	}
	if err := h.Events.DeleteEvent(c.Request().Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
