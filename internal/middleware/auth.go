package middleware

import (
	"strings"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/token"
	"github.com/JusticeIsreal/url-shortener/pkg/response"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// RequireAuth verifies the Bearer token and stores the resolved caller
// identity on the request context. Downstream services receive the identity
// as a verified fact and never re-check the token.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		bearer, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || bearer == "" {
			response.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}

		identity, err := token.Parse(secret, bearer)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// SetIdentity attaches a caller identity directly. Used by tests and by any
// transport that resolves identity outside RequireAuth.
func SetIdentity(c *gin.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFromContext returns the caller identity set by RequireAuth.
func IdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return domain.Identity{}, false
	}
	identity, ok := value.(domain.Identity)
	return identity, ok
}
