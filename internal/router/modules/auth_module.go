package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devarta/taskboard/internal/container"
	handlers "github.com/devarta/taskboard/internal/interface/http"
	"github.com/devarta/taskboard/internal/interface/middleware"
	"github.com/devarta/taskboard/pkg/helpers"
)

// AuthModule wires registration, login, and profile routes.
// Public: POST /api/register, POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET /api/profile
type AuthModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP())

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
	}
}
