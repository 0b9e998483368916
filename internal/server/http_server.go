package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/elucidate-app/elucidate/internal/app"
)

// NewRouter assembles the gin engine: recovery, CORS, request metrics,
// static photo serving and every registered service mounted under /api.
func NewRouter(appCtx *app.AppContext, registrars ...Registrar) *gin.Engine {
	cfg := appCtx.Config
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appCtx.Metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true, // the session cookie must cross origins
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", appCtx.Metrics.Handler())

	// uploaded profile photos
	router.Static(cfg.Uploads.PublicPath, cfg.Uploads.Dir)

	api := router.Group("/api")
	for _, r := range registrars {
		r.Register(api)
	}

	return router
}

// StartHTTPServer boots the HTTP server with all provided services.
func StartHTTPServer(appCtx *app.AppContext, registrars ...Registrar) error {
	router := NewRouter(appCtx, registrars...)
	addr := fmt.Sprintf("%s:%s", appCtx.Config.HTTP.Host, appCtx.Config.HTTP.Port)
	return router.Run(addr)
}
