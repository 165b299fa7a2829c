package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devarta/taskboard/internal/container"
	handlers "github.com/devarta/taskboard/internal/interface/http"
	"github.com/devarta/taskboard/internal/interface/middleware"
	"github.com/devarta/taskboard/pkg/helpers"
)

// ProjectModule wires owner-scoped project CRUD under /api/projects.
type ProjectModule struct {
	Handler *handlers.ProjectHandler
	JWT     *helpers.JWTManager
}

func NewProjectModule(h *handlers.ProjectHandler, jwt *helpers.JWTManager) *ProjectModule {
	return &ProjectModule{Handler: h, JWT: jwt}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/projects")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/:id", m.Handler.Get)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
