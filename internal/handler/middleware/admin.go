package middleware

import (
	"github.com/gin-gonic/gin"

	"optimeet/meethub/internal/model"
	jwtpkg "optimeet/meethub/pkg/jwt"
	"optimeet/meethub/pkg/response"
)

// AdminAuth checks that the authenticated user carries the admin role.
// Must be used after JWTAuth middleware.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsVal, exists := c.Get(ContextKeyUserClaims)
		if !exists {
			response.Unauthorized(c, "missing authentication")
			c.Abort()
			return
		}
		claims, ok := claimsVal.(*jwtpkg.Claims)
		if !ok {
			response.Unauthorized(c, "invalid claims")
			c.Abort()
			return
		}

		if claims.Role != string(model.RoleAdmin) {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
