package controllers

import (
	"net/http"
	"time"

	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/labstack/echo/v4"
)

// StatsController : StatsController struct
type StatsController struct {
	svc *service.RelayAdminService
}

func NewStatsController(svc *service.RelayAdminService) *StatsController {
	return &StatsController{svc: svc}
}

// Stats godoc
// @Summary      Relay statistics
// @Description  Aggregated numbers about the events stored by the relay
// @Accept       json
// @Produce      json
// @Tags         Stats
// @Success      200  {object}  service.Stats
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/stats [get]
func (controller *StatsController) Stats(c echo.Context) error {
	stats, err := controller.svc.GetStats(c.Request().Context(), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
