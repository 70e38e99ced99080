package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"skillsphere/internal/service"
)

const authClaimsKey = "authClaims"

// JWTAuthMiddleware valida el token Bearer y deja los claims en el contexto.
func JWTAuthMiddleware(jwts *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, 401, "authorization header required")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(c, 401, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwts.ParseAccessToken(parts[1])
		if err != nil {
			respondError(c, 401, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims recupera los claims dejados por el middleware.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	v, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := v.(service.Claims)
	return claims, ok
}
