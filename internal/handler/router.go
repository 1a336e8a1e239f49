package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-parking/internal/handler/api"
	"clinic-parking/internal/handler/middleware"
	"clinic-parking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

type Handlers struct {
	Checkin *api.CheckinHandler
	Webhook *api.WebhookHandler
	Extend  *api.ExtendHandler
	Cron    *api.CronHandler
	Admin   *api.AdminHandler
	Auth    *api.AuthHandler
	Status  *api.StatusHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be outermost to catch panics from other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/checkin", Handler: h.Checkin.CheckIn},
			{Method: http.MethodPost, Path: "/webhooks/stripe", Handler: h.Webhook.HandleStripe},
			{Method: http.MethodGet, Path: "/status", Handler: h.Status.Status},
			{Method: http.MethodGet, Path: "/extend/:sessionId", Handler: h.Extend.GetInfo},
			{Method: http.MethodPost, Path: "/extend/:sessionId", Handler: h.Extend.RequestExtension},
			{Method: http.MethodPost, Path: "/auth/login", Handler: h.Auth.Login},
		})

		cron := apiGroup.Group("/cron")
		cron.Use(middleware.RequireCronSecret(cfg.Notify.CronSecret))
		addRoutes(cron, []route{
			{Method: http.MethodPost, Path: "/check-expiring", Handler: h.Cron.CheckExpiring},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		addRoutes(admin, []route{
			{Method: http.MethodGet, Path: "/sessions", Handler: h.Admin.ListSessions},
			{Method: http.MethodPost, Path: "/sessions/:sessionId/extend", Handler: h.Extend.AdminExtend},
			{Method: http.MethodGet, Path: "/permits", Handler: h.Admin.ListPermits},
			{Method: http.MethodPost, Path: "/permits", Handler: h.Admin.CreatePermits},
			{Method: http.MethodPatch, Path: "/spots/:label", Handler: h.Admin.SetSpotActive},
			{Method: http.MethodGet, Path: "/config", Handler: h.Admin.GetConfig},
			{Method: http.MethodPut, Path: "/config", Handler: h.Admin.UpdateConfig},
			{Method: http.MethodGet, Path: "/revenue", Handler: h.Admin.Revenue},
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodPatch:
			g.PATCH(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
