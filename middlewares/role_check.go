package middlewares

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/utils"
)

// RequireRole lets the request through only when the authenticated role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			utils.RespondError(c, apperrors.Unauthorized("unauthorized"))
			return
		}
		if !slices.Contains(roles, role) {
			utils.RespondError(c, apperrors.Forbidden(role+" access is not allowed"))
			return
		}
		c.Next()
	}
}
