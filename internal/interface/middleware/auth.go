package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbe-dev/urbe-backend/pkg/helpers"
	"github.com/urbe-dev/urbe-backend/pkg/response"
)

// Auth reads the token from the x-auth-token header and sets userID in the
// Gin context on success. Every protected route depends on it.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("x-auth-token")
		if token == "" {
			response.Msg(c, http.StatusUnauthorized, "No Token found! Access denied")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Msg(c, http.StatusUnauthorized, "Invalid Token! you are not allowed to access this content")
			c.Abort()
			return
		}
		c.Set("userID", claims.UserID)
		c.Next()
	}
}
