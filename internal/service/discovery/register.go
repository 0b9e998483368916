package discovery

import (
	"github.com/gin-gonic/gin"

	"github.com/elucidate-app/elucidate/internal/app"
	"github.com/elucidate-app/elucidate/internal/middleware"
)

// Registrar ties the discovery service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discovery service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the discovery routes on the API group
func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewDiscoveryService(r.appCtx)
	auth := middleware.SessionAuth(r.appCtx.Sessions)

	users := api.Group("/users", auth)
	users.GET("/fetchUsers", service.FetchUsers)
	users.POST("/like", service.Like)
	users.POST("/dislike", service.Dislike)
	users.GET("/likedCount", service.LikedCount)

	matches := api.Group("/matches", auth)
	matches.POST("/checkForMatch", service.CheckForMatch)
	matches.POST("/defaultMessage", service.DefaultMessage)
	matches.GET("/fetchMatches", service.FetchMatches)
}
