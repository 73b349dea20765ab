package controllers

import (
	"github.com/getAlby/relayadmin.go/common"
	"github.com/labstack/echo/v4"
)

// actor is the admin pubkey of the session, empty when auth is disabled
func actor(c echo.Context) string {
	pubkey, _ := c.Get(common.AdminPubkeyContextKey).(string)
	return pubkey
}
