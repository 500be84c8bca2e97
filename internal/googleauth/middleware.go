package googleauth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "student_identity"

// StudentAuth verifies the bearer Google ID token on every request and stashes
// the verified identity in the gin context.
func StudentAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header missing or invalid"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		ident, err := v.Verify(c.Request.Context(), tokenStr)
		switch {
		case err == nil:
			c.Set(identityKey, ident)
			c.Next()
		case errors.Is(err, ErrUpstream):
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"message": "Identity verification unavailable"})
		case errors.Is(err, ErrForeignDomain):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Only institute emails are allowed"})
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid Google token"})
		}
	}
}

// StudentIdentity returns the identity set by StudentAuth.
func StudentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}
