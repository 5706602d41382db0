package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"optimeet/meethub/internal/handler/middleware"
	jwtpkg "optimeet/meethub/pkg/jwt"
)

var ErrNoClaims = errors.New("claims not found in context")

// callerName returns the authenticated caller's user name from the
// validated JWT claims set by the auth middleware.
func callerName(c *gin.Context) (string, error) {
	claimsVal, exists := c.Get(middleware.ContextKeyUserClaims)
	if !exists {
		return "", ErrNoClaims
	}
	claims, ok := claimsVal.(*jwtpkg.Claims)
	if !ok {
		return "", ErrNoClaims
	}
	return claims.Subject, nil
}
