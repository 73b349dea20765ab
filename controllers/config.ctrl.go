package controllers

import (
	"errors"
	"net/http"

	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/labstack/echo/v4"
)

// ConfigController : ConfigController struct
type ConfigController struct {
	svc *service.RelayAdminService
}

func NewConfigController(svc *service.RelayAdminService) *ConfigController {
	return &ConfigController{svc: svc}
}

type ConfigResponseBody struct {
	Content string `json:"content"`
}

type SaveConfigRequestBody struct {
	// pointer so an empty file can be saved but a missing field is rejected
	Content *string `json:"content" validate:"required"`
}

// GetConfig godoc
// @Summary      Read the relay config
// @Description  Returns the relay's config.toml as text
// @Accept       json
// @Produce      json
// @Tags         Config
// @Success      200  {object}  ConfigResponseBody
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/config [get]
func (controller *ConfigController) GetConfig(c echo.Context) error {
	content, err := controller.svc.ReadRelayConfig()
	if err != nil {
		return controller.configError(c, err)
	}
	return c.JSON(http.StatusOK, &ConfigResponseBody{Content: content})
}

// SaveConfig godoc
// @Summary      Overwrite the relay config
// @Description  Writes the posted text to the relay's config.toml without validation. The previous file is kept as .bak.
// @Accept       json
// @Produce      json
// @Tags         Config
// @Param        config  body      SaveConfigRequestBody  true  "New config"
// @Success      200     {object}  responses.StatusResponse
// @Failure      400     {object}  responses.ErrorResponse
// @Failure      500     {object}  responses.ErrorResponse
// @Router       /api/config [post]
func (controller *ConfigController) SaveConfig(c echo.Context) error {
	var body SaveConfigRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load config request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage("Field content is required."))
	}
	if err := controller.svc.WriteRelayConfig(c.Request().Context(), *body.Content, actor(c)); err != nil {
		return controller.configError(c, err)
	}
	return c.JSON(http.StatusOK, responses.Success("Configuration saved. Relay restart might be required."))
}

// ConfigInfo godoc
// @Summary      Summary of the relay config
// @Description  Parses the relay's config.toml and returns its [info] section. Purely advisory.
// @Accept       json
// @Produce      json
// @Tags         Config
// @Success      200  {object}  service.RelayConfigInfo
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/config/info [get]
func (controller *ConfigController) ConfigInfo(c echo.Context) error {
	info, err := controller.svc.RelayConfigInfo()
	if err != nil {
		return controller.configError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

func (controller *ConfigController) configError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrConfigUnavailable) {
		c.Logger().Errorf("Relay config: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.ConfigUnavailableError.WithMessage(err.Error()))
	}
	return err
}
