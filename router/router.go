package router

import (
	"net/http"

	"minimarket/config"
	"minimarket/controllers"
	"minimarket/logger"
	"minimarket/metrics"
	"minimarket/middleware"
	"minimarket/render"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares. Ops endpoints stay open;
// the JSON API and the admin pages sit behind the optional token.
func Initialize(r *gin.Engine, cfg config.Configuration, ct *controllers.Controller, m *metrics.Metrics, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}

	r.Use(gin.Recovery())
	r.Use(RequestID(log))
	r.Use(Logger(log))
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	r.GET("/health", ct.Health)
	r.StaticFS("/static", http.FS(render.Static()))

	guarded := r.Group("")
	guarded.Use(Authorizer(cfg.Security.ApiToken))

	// API
	guarded.Any("/router", ct.Dispatch)
	guarded.Any("/router/:id", ct.Dispatch)
	guarded.GET("/configuration", ct.Configuration)

	// Admin
	guarded.GET("/", ct.Index)
	ui := guarded.Group("/ui")
	ui.GET("/:module/table", ct.Table)
	ui.GET("/:module/new", ct.NewForm)
	ui.GET("/:module/:id/edit", ct.EditForm)
	ui.POST("/:module", ct.Submit)
	ui.POST("/:module/:id", ct.Submit)
	ui.POST("/:module/:id/delete", ct.Delete)
}
