package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devarta/taskboard/internal/application"
	"github.com/devarta/taskboard/internal/interface/middleware"
	"github.com/devarta/taskboard/pkg/helpers"
	"github.com/devarta/taskboard/pkg/response"
	"github.com/devarta/taskboard/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookieManager(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "email already registered", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "name": u.Name}, "registered", nil)
}

// Login POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Refresh POST /api/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", nil)
}

// Logout POST /api/logout
func (h *UserHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt,
	}, "profile", nil)
}
