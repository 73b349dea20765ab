package controllers

import (
	"net/http"

	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/labstack/echo/v4"
)

type HealthController struct {
	svc *service.RelayAdminService
}

func NewHealthController(svc *service.RelayAdminService) *HealthController {
	return &HealthController{svc: svc}
}

type HealthResponse struct {
	Result string `json:"result"`
}

// Check godoc
// @Summary      Check system health
// @Description  Checks that the relay database can be queried
// @Accept       json
// @Produce      json
// @Tags         Health
// @Success      200  {object}  HealthResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/health [get]
func (controller *HealthController) Check(c echo.Context) error {
	if err := controller.svc.DB.PingContext(c.Request().Context()); err != nil {
		c.Logger().Errorf("Database ping failed: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, &HealthResponse{
		Result: "OK",
	})
}
