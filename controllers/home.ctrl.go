package controllers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"
)

// HomeController : HomeController struct
type HomeController struct {
	svc  *service.RelayAdminService
	tmpl *template.Template
}

func NewHomeController(svc *service.RelayAdminService, html string) *HomeController {
	return &HomeController{
		svc:  svc,
		tmpl: template.Must(template.New("index").Parse(html)),
	}
}

type HomepageContent struct {
	RelayWebsocketURL string
	StreamProxy       bool
	AuthRequired      bool
	Branding          service.BrandingConfig
}

// QR renders the relay websocket url as PNG
func (controller *HomeController) QR(c echo.Context) error {
	wsURL := controller.svc.RelayWebsocketURL()
	if wsURL == "" {
		return c.NoContent(http.StatusNotFound)
	}
	png, err := qrcode.Encode(wsURL, qrcode.Medium, 256)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (controller *HomeController) Home(c echo.Context) error {
	content := HomepageContent{
		RelayWebsocketURL: controller.svc.RelayWebsocketURL(),
		StreamProxy:       controller.svc.Config.StreamProxy,
		AuthRequired:      controller.svc.AuthRequired(),
		Branding:          controller.svc.Config.Branding,
	}
	var buf bytes.Buffer
	err := controller.tmpl.Execute(&buf, content)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
