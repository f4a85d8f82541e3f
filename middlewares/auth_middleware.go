package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// AuthMiddleware accepts an access token from the Authorization header or the accessToken cookie.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.RespondError(c, apperrors.Unauthorized("authorization token missing"))
			return
		}

		claims, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			utils.RespondError(c, apperrors.Unauthorized("invalid or expired token"))
			return
		}
		if claims.UserID == 0 {
			utils.RespondError(c, apperrors.Unauthorized("invalid user id in token"))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func setClaims(c *gin.Context, claims *utils.CustomClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
}
