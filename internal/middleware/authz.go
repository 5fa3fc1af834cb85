package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"visaflow/internal/authz"
)

// RequireCapability lets the request through only when the caller's role
// holds every listed capability.
func RequireCapability(required ...authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role := Caller(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		caps := authz.CapabilitiesFor(role)
		for _, want := range required {
			if !caps.Has(want) {
				log.Printf("[authz][deny] user=%d role=%s missing=%s path=%s request_id=%s",
					userID, role, want, c.FullPath(), RequestIDFrom(c))
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}
		c.Next()
	}
}
