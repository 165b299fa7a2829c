package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/devarta/taskboard/pkg/helpers"
	"github.com/devarta/taskboard/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// Auth validates the access token cookie and ensures an active session
// exists in Redis. On success it sets userID and userEmail in the Gin
// context; handlers treat those as the authenticated principal.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.AbortError(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		c.Set(CtxUserIDKey, data["user_id"])
		c.Set(CtxUserEmailKey, data["email"])
		c.Next()
	}
}
