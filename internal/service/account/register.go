package account

import (
	"github.com/gin-gonic/gin"

	"github.com/elucidate-app/elucidate/internal/app"
	"github.com/elucidate-app/elucidate/internal/middleware"
)

// Registrar ties the account service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the account service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the account routes on the API group
func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewAccountService(r.appCtx)
	limiter := middleware.NewRateLimiter(
		r.appCtx.Config.RateLimit.LoginPerMinute,
		r.appCtx.Config.RateLimit.LoginBurst,
	)

	users := api.Group("/users")
	users.POST("/signup", limiter.Handler(), service.Signup)
	users.POST("/login", limiter.Handler(), service.Login)
	users.POST("/deleteSession", service.Logout)

	protected := api.Group("/users", middleware.SessionAuth(r.appCtx.Sessions))
	protected.GET("/fetchCurrentUser", service.CurrentUser)
	protected.POST("/profilesetup", service.ProfileSetup)
}
