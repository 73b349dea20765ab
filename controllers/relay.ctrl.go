package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nbd-wtf/go-nostr"
)

// RelayController : RelayController struct
type RelayController struct {
	svc *service.RelayAdminService
}

func NewRelayController(svc *service.RelayAdminService) *RelayController {
	return &RelayController{svc: svc}
}

// Info godoc
// @Summary      Relay information document
// @Description  Fetches the NIP-11 document of the relay
// @Accept       json
// @Produce      json
// @Tags         Relay
// @Success      200  {object}  nip11.RelayInformationDocument
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/relay [get]
func (controller *RelayController) Info(c echo.Context) error {
	info, err := controller.svc.FetchRelayInformation(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to fetch relay information: %v", err)
		if errors.Is(err, service.ErrNoRelayURL) {
			return c.JSON(http.StatusInternalServerError, responses.RelayUnavailableError.WithMessage("No relay websocket url configured."))
		}
		return c.JSON(http.StatusInternalServerError, responses.RelayUnavailableError)
	}
	return c.JSON(http.StatusOK, info)
}

// Stream forwards the relay's events to the browser as
// ["EVENT", <subscription id>, <event>] frames
func (controller *RelayController) Stream(c echo.Context) error {
	upgrader := websocket.Upgrader{}
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	subId := c.QueryParam("sub")
	if subId == "" {
		subId = "live"
	}

	// the browser only ever closes the socket, stop streaming when it does
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	err = controller.svc.StreamRelayEvents(ctx, func(event *nostr.Event) error {
		ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return ws.WriteJSON([]interface{}{"EVENT", subId, event})
	})
	if err != nil {
		controller.svc.Logger.Errorf("Relay stream ended: %v", err)
		ws.WriteJSON([]interface{}{"NOTICE", err.Error()})
	}
	return nil
}
