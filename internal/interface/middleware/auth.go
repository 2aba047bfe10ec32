package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/findmyroom/findmyroom-api/pkg/helpers"
	"github.com/findmyroom/findmyroom-api/pkg/response"
)

// Auth validates the session token and, when Redis is configured, requires an
// active session record. It sets userID and userEmail in the Gin context.
// The token is read from the session cookie or a Bearer Authorization header.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			msg := "invalid session token"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "session expired"
			}
			response.Error[any](c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}

		if rdb != nil {
			key := "user:session:" + claims.UserID
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 {
				response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if token, err := c.Cookie("session_token"); err == nil && token != "" {
		return token
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
