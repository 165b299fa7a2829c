package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devarta/taskboard/internal/container"
	handlers "github.com/devarta/taskboard/internal/interface/http"
	"github.com/devarta/taskboard/internal/interface/middleware"
	"github.com/devarta/taskboard/pkg/helpers"
)

// NotificationModule wires the direct enqueue endpoint.
type NotificationModule struct {
	Handler *handlers.NotificationHandler
	JWT     *helpers.JWTManager
}

func NewNotificationModule(h *handlers.NotificationHandler, jwt *helpers.JWTManager) *NotificationModule {
	return &NotificationModule{Handler: h, JWT: jwt}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/notifications")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/send", m.Handler.Send)
	}
}
