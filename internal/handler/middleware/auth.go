package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	jwtpkg "pickup/gamehub/pkg/jwt"
	"pickup/gamehub/pkg/response"
)

const ContextKeyUserClaims = "user_claims"

// JWTAuth requires a valid bearer access token and stores its claims under
// ContextKeyUserClaims.
func JWTAuth(jwtManager *jwtpkg.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateType(token, jwtpkg.TokenTypeAccess)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		if _, err := claims.UserID(); err != nil {
			response.Unauthorized(c, "invalid token subject")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserClaims, claims)
		c.Next()
	}
}
