package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devarta/taskboard/internal/container"
	handlers "github.com/devarta/taskboard/internal/interface/http"
	"github.com/devarta/taskboard/internal/interface/middleware"
	"github.com/devarta/taskboard/pkg/helpers"
)

// TaskModule wires owner-scoped task routes under /api/tasks.
type TaskModule struct {
	Handler *handlers.TaskHandler
	JWT     *helpers.JWTManager
}

func NewTaskModule(h *handlers.TaskHandler, jwt *helpers.JWTManager) *TaskModule {
	return &TaskModule{Handler: h, JWT: jwt}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/tasks")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
