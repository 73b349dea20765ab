package controllers

import (
	"net/http"

	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/labstack/echo/v4"
)

// ActionsController : ActionsController struct
type ActionsController struct {
	svc *service.RelayAdminService
}

func NewActionsController(svc *service.RelayAdminService) *ActionsController {
	return &ActionsController{svc: svc}
}

// ListActions godoc
// @Summary      Admin audit log
// @Description  Returns the latest admin actions (deletes, bans, config changes)
// @Accept       json
// @Produce      json
// @Tags         Actions
// @Param        limit  query     int  false  "Maximum number of rows (default 100, max 1000)"
// @Success      200    {object}  []models.AdminAction
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Router       /api/actions [get]
func (controller *ActionsController) ListActions(c echo.Context) error {
	limit, err := service.ParseEventsLimit(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidLimitError)
	}
	actions, err := controller.svc.ListAdminActions(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actions)
}
