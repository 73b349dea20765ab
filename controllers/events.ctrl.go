package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/labstack/echo/v4"
)

// EventsController : EventsController struct
type EventsController struct {
	svc *service.RelayAdminService
}

func NewEventsController(svc *service.RelayAdminService) *EventsController {
	return &EventsController{svc: svc}
}

type PurgeEventsResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// ListEvents godoc
// @Summary      List events
// @Description  Returns the newest events of the relay, optionally filtered by a substring of pubkey, event id or content
// @Accept       json
// @Produce      json
// @Tags         Events
// @Param        q      query     string  false  "Search term"
// @Param        limit  query     int     false  "Maximum number of rows (default 100, max 1000)"
// @Success      200    {object}  []models.EventRow
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Router       /api/events [get]
func (controller *EventsController) ListEvents(c echo.Context) error {
	limit, err := service.ParseEventsLimit(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidLimitError)
	}
	events, err := controller.svc.ListEvents(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// DeleteEvent godoc
// @Summary      Delete an event
// @Description  Deletes one event by its database id. Unknown ids are not an error.
// @Accept       json
// @Produce      json
// @Tags         Events
// @Param        id   path      int  true  "Database id of the event"
// @Success      200  {object}  responses.StatusResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/events/{id} [delete]
func (controller *EventsController) DeleteEvent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidEventIdError)
	}
	if err := controller.svc.DeleteEvent(c.Request().Context(), id, actor(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, responses.Success(fmt.Sprintf("Event %d deleted.", id)))
}

// PurgeEvents godoc
// @Summary      Delete all events of an author
// @Description  Deletes every event published by the given pubkey (hex or npub)
// @Accept       json
// @Produce      json
// @Tags         Events
// @Param        pubkey  query     string  true  "Author pubkey"
// @Success      200     {object}  PurgeEventsResponseBody
// @Failure      400     {object}  responses.ErrorResponse
// @Failure      500     {object}  responses.ErrorResponse
// @Router       /api/events [delete]
func (controller *EventsController) PurgeEvents(c echo.Context) error {
	deleted, err := controller.svc.PurgeEvents(c.Request().Context(), c.QueryParam("pubkey"), actor(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidPubkey) {
			return c.JSON(http.StatusBadRequest, responses.InvalidPubkeyError)
		}
		return err
	}
	return c.JSON(http.StatusOK, &PurgeEventsResponseBody{
		Status:  "success",
		Message: fmt.Sprintf("%d events deleted.", deleted),
		Deleted: deleted,
	})
}
