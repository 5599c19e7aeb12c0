package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jetfood/internal/types"
)

// Identity is established by the upstream gateway, which authenticates the
// caller and forwards their id and role in trusted headers.
const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
)

// Identity rejects requests without a valid caller identity.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader(userIDHeader), 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
			return
		}
		c.Set("caller_id", id)
		c.Set("caller_role", c.GetHeader(userRoleHeader))
		c.Next()
	}
}

// RequireRole gates a route group to the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CallerRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

func CallerID(c *gin.Context) types.ID {
	return types.ID(c.GetInt64("caller_id"))
}

func CallerRole(c *gin.Context) string {
	return c.GetString("caller_role")
}
