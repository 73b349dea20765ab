package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/labstack/echo/v4"
)

// BannedController : BannedController struct
type BannedController struct {
	svc *service.RelayAdminService
}

func NewBannedController(svc *service.RelayAdminService) *BannedController {
	return &BannedController{svc: svc}
}

type BanRequestBody struct {
	Pubkey string `json:"pubkey" validate:"required"`
}

// ListBanned godoc
// @Summary      List banned pubkeys
// @Description  Returns all banned pubkeys, newest ban first
// @Accept       json
// @Produce      json
// @Tags         Banned
// @Success      200  {object}  []models.BannedPubkey
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/banned [get]
func (controller *BannedController) ListBanned(c echo.Context) error {
	banned, err := controller.svc.ListBanned(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, banned)
}

// Ban godoc
// @Summary      Ban a pubkey
// @Description  Adds a pubkey (64 hex characters or npub) to the ban list
// @Accept       json
// @Produce      json
// @Tags         Banned
// @Param        pubkey  body      BanRequestBody  true  "Pubkey to ban"
// @Success      200     {object}  responses.StatusResponse
// @Failure      400     {object}  responses.ErrorResponse
// @Failure      500     {object}  responses.ErrorResponse
// @Router       /api/banned [post]
func (controller *BannedController) Ban(c echo.Context) error {
	var body BanRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load ban request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidPubkeyError)
	}

	banned, err := controller.svc.BanPubkey(c.Request().Context(), body.Pubkey, actor(c))
	switch {
	case errors.Is(err, service.ErrInvalidPubkey):
		return c.JSON(http.StatusBadRequest, responses.InvalidPubkeyError)
	case errors.Is(err, service.ErrAlreadyBanned):
		return c.JSON(http.StatusBadRequest, responses.AlreadyBannedError)
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, responses.Success(fmt.Sprintf("Pubkey %s banned.", service.ShortPubkey(banned.Pubkey))))
}

// Unban godoc
// @Summary      Unban a pubkey
// @Description  Removes a pubkey from the ban list. Unknown pubkeys are not an error.
// @Accept       json
// @Produce      json
// @Tags         Banned
// @Param        pubkey  path      string  true  "Banned pubkey"
// @Success      200     {object}  responses.StatusResponse
// @Failure      500     {object}  responses.ErrorResponse
// @Router       /api/banned/{pubkey} [delete]
func (controller *BannedController) Unban(c echo.Context) error {
	pubkey := c.Param("pubkey")
	if err := controller.svc.UnbanPubkey(c.Request().Context(), pubkey, actor(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, responses.Success(fmt.Sprintf("Pubkey %s unbanned.", service.ShortPubkey(pubkey))))
}
