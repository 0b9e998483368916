package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/elucidate-app/elucidate/internal/app"
	"github.com/elucidate-app/elucidate/internal/middleware"
)

// Registrar ties the chat service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the messaging routes on the API group
func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewChatService(r.appCtx)

	messages := api.Group("/messages", middleware.SessionAuth(r.appCtx.Sessions))
	messages.POST("/sendMessage", service.SendMessage)
	messages.GET("/getConversations", service.GetConversations)
	messages.GET("/getUserAvatar", service.GetUserAvatar)
}
