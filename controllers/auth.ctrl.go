package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/getAlby/relayadmin.go/lib/tokens"
	"github.com/labstack/echo/v4"
	"github.com/nbd-wtf/go-nostr"
)

// AuthController : AuthController struct
type AuthController struct {
	svc *service.RelayAdminService
}

func NewAuthController(svc *service.RelayAdminService) *AuthController {
	return &AuthController{
		svc: svc,
	}
}

type ChallengeResponseBody struct {
	Challenge string `json:"challenge"`
	ExpiresAt int64  `json:"expires_at"`
}

type VerifyResponseBody struct {
	Status    string `json:"status"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type AuthStatusResponseBody struct {
	AuthRequired  bool   `json:"auth_required"`
	Authenticated bool   `json:"authenticated"`
	Pubkey        string `json:"pubkey,omitempty"`
}

// Challenge godoc
// @Summary      Request a login challenge
// @Description  Returns a single use challenge that has to be signed by the admin key
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Success      200  {object}  ChallengeResponseBody
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/auth/challenge [get]
func (controller *AuthController) Challenge(c echo.Context) error {
	challenge, expiresAt, err := controller.svc.IssueChallenge()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &ChallengeResponseBody{
		Challenge: challenge,
		ExpiresAt: expiresAt.Unix(),
	})
}

// Verify godoc
// @Summary      Log in with a signed challenge
// @Description  Verifies a kind 22242 event signed by the admin key that carries the challenge in a "challenge" tag, and starts a session
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Param        event  body      nostr.Event  true  "Signed auth event"
// @Success      200    {object}  VerifyResponseBody
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      403    {object}  responses.ErrorResponse
// @Router       /api/auth/verify [post]
func (controller *AuthController) Verify(c echo.Context) error {
	var event nostr.Event

	if err := c.Bind(&event); err != nil {
		c.Logger().Errorf("Failed to load auth event: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	token, expiresAt, err := controller.svc.VerifyAuthEvent(event)
	if err != nil {
		if errors.Is(err, service.ErrBadAuth) {
			c.Logger().Warnf("Rejected login attempt: %v", err)
			return c.JSON(http.StatusForbidden, responses.BadAuthError.WithMessage(err.Error()))
		}
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, &VerifyResponseBody{
		Status:    "success",
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Clears the session cookie
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Success      200  {object}  responses.StatusResponse
// @Router       /api/auth/logout [post]
func (controller *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, responses.Success("Logged out."))
}

// Status godoc
// @Summary      Session status
// @Description  Reports whether a login is required and whether the request carries a valid session
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Success      200  {object}  AuthStatusResponseBody
// @Router       /api/auth/status [get]
func (controller *AuthController) Status(c echo.Context) error {
	response := &AuthStatusResponseBody{
		AuthRequired: controller.svc.AuthRequired(),
	}
	if !response.AuthRequired {
		response.Authenticated = true
		return c.JSON(http.StatusOK, response)
	}
	if token := tokens.SessionToken(c); token != "" {
		pubkey, err := tokens.ParseSessionToken(controller.svc.Config.JWTSecret, token)
		if err == nil && pubkey == controller.svc.AdminPubkey() {
			response.Authenticated = true
			response.Pubkey = pubkey
		}
	}
	return c.JSON(http.StatusOK, response)
}
