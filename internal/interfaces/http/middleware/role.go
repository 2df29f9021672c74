package middleware

import (
	"net/http"

	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// RequireStaff rejects requests whose token role is neither MODERATOR nor
// ADMIN. It must run after the JWT middleware. Handlers still re-check
// permissions against the database row; this is only a cheap gate on the
// token's claim.
func RequireStaff() gin.HandlerFunc {
	return requireRole(func(role identity.Role) bool {
		return role.IsStaff()
	})
}

// RequireAdmin rejects requests whose token role is not ADMIN
func RequireAdmin() gin.HandlerFunc {
	return requireRole(func(role identity.Role) bool {
		return role == identity.RoleAdmin
	})
}

func requireRole(allowed func(identity.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		if !role.IsValid() || !allowed(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient role for this operation",
				},
			})
			return
		}
		c.Next()
	}
}
