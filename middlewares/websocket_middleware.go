package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades. Browsers cannot set headers on the
// handshake, so the token may also come from the token query parameter or the accessToken cookie.
func WebSocketAuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := tokens.ParseAccessToken(token)
		if err != nil || claims.UserID == 0 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}
