package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"activitySignup/cmd/middleware"
	"activitySignup/internal/dto"
	"activitySignup/internal/metrics"
	"activitySignup/internal/service"
)

type Routers struct {
	Service   service.Service
	Log       *zerolog.Logger
	Mode      string
	StaticDir string
	Metrics   bool
}

func NewRouters(r *Routers) *ginext.Engine {
	mode := r.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	app := ginext.New(mode)
	app.UseRawPath = true
	app.UnescapePathValues = true

	app.Use(gin.Recovery())
	app.Use(middleware.RequestID())
	app.Use(middleware.LoggingMiddleware(r.Log))
	app.Use(middleware.Metrics())
	app.Use(cors.Default())

	app.GET("/activities", r.Service.ListActivities)
	app.POST("/activities/:name/signup", r.Service.Signup)
	app.DELETE("/activities/:name/participants", r.Service.Unregister)

	app.GET("/healthz", func(c *ginext.Context) {
		c.String(http.StatusOK, "ok")
	})
	if r.Metrics {
		app.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	if r.StaticDir != "" {
		app.GET("/", func(c *ginext.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "/static/")
		})
		app.Static("/static", r.StaticDir)
	}

	app.NoRoute(func(c *ginext.Context) {
		dto.NotFoundError(c, dto.RouteNotFound)
	})

	return app
}
