package transport

import (
	"net/http"
	"time"

	"github.com/getAlby/relayadmin.go/controllers"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/getAlby/relayadmin.go/lib/tokens"
	"github.com/getAlby/relayadmin.go/templates"
	"github.com/labstack/echo/v4"
)

// RegisterAdminEndpoints wires the page and the /api routes. Everything under
// /api except auth and health requires an admin session when ADMIN_PUBKEY is set.
func RegisterAdminEndpoints(svc *service.RelayAdminService, e *echo.Echo, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	// Index page endpoints, no session required
	homeController := controllers.NewHomeController(svc, templates.IndexHTML)
	e.GET("/", homeController.Home)
	e.GET("/qr", homeController.QR)
	e.GET("/static/*", echo.WrapHandler(http.FileServer(http.FS(templates.StaticContent))))

	e.GET("/api/health", controllers.NewHealthController(svc).Check)

	authCtrl := controllers.NewAuthController(svc)
	e.GET("/api/auth/challenge", authCtrl.Challenge, strictRateLimitMiddleware, logMw)
	e.POST("/api/auth/verify", authCtrl.Verify, strictRateLimitMiddleware, logMw)
	e.POST("/api/auth/logout", authCtrl.Logout, logMw)
	e.GET("/api/auth/status", authCtrl.Status)

	secured := e.Group("/api", tokens.Middleware(svc.Config.JWTSecret, svc.AdminPubkey()), logMw)

	statsMw := []echo.MiddlewareFunc{}
	if svc.Config.StatsCacheTTL > 0 {
		statsMw = append(statsMw, CreateCacheMiddleware(time.Duration(svc.Config.StatsCacheTTL)*time.Second))
	}
	secured.GET("/stats", controllers.NewStatsController(svc).Stats, statsMw...)

	eventsCtrl := controllers.NewEventsController(svc)
	secured.GET("/events", eventsCtrl.ListEvents)
	secured.DELETE("/events/:id", eventsCtrl.DeleteEvent)
	secured.DELETE("/events", eventsCtrl.PurgeEvents)

	bannedCtrl := controllers.NewBannedController(svc)
	secured.GET("/banned", bannedCtrl.ListBanned)
	secured.POST("/banned", bannedCtrl.Ban)
	secured.DELETE("/banned/:pubkey", bannedCtrl.Unban)

	configCtrl := controllers.NewConfigController(svc)
	secured.GET("/config", configCtrl.GetConfig)
	secured.POST("/config", configCtrl.SaveConfig)
	secured.GET("/config/info", configCtrl.ConfigInfo)

	secured.GET("/actions", controllers.NewActionsController(svc).ListActions)

	relayCtrl := controllers.NewRelayController(svc)
	secured.GET("/relay", relayCtrl.Info)
	if svc.Config.StreamProxy {
		secured.GET("/stream", relayCtrl.Stream)
	}
}
