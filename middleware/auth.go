package middleware

import (
	"net/http"
	"strings"

	"carelink/models"
	"carelink/utils"

	"github.com/gin-gonic/gin"
)

const (
	// ContextActorID and ContextActorRole are the gin context keys the auth
	// middleware populates for downstream handlers.
	ContextActorID   = "actorID"
	ContextActorRole = "actorRole"
)

// ActorAuthMiddleware resolves the calling actor from a bearer token issued
// by the external identity layer. The token carries an opaque actor ID and a
// role claim; the core trusts both as given.
func ActorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actorID, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		if role != string(models.RoleClient) && role != string(models.RoleProvider) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set(ContextActorID, actorID)
		c.Set(ContextActorRole, role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the resolved actor has the given role.
func RequireRole(role models.ActorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextActorRole) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Forbidden for this role",
			})
			return
		}
		c.Next()
	}
}

// Actor returns the resolved actor ID and role from the gin context.
func Actor(c *gin.Context) (string, models.ActorRole) {
	return c.GetString(ContextActorID), models.ActorRole(c.GetString(ContextActorRole))
}
