package middleware

import (
	"net/http"

	"bistro-backend/utils"

	"github.com/gin-gonic/gin"
)

// AdminCookieName is the cookie carrying the dashboard session token.
const AdminCookieName = "admin_token"

// ContextTokenID is the gin context key holding the validated token's jti.
const ContextTokenID = "admin_token_id"

// AdminAuthMiddleware gates administrative mutations behind the signed
// session token. It is a pure validation step: a missing or invalid token
// rejects the request outright, nothing is retried or logged-and-continued.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateAdminToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextTokenID, claims.ID)
		c.Next()
	}
}
