package api

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/pkg/api/auth"
)

// securityHeaders sets standard security response headers, translated
// from the teacher's echo middleware of the same name.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Next()
	}
}

const userIDContextKey = "inbox_user_id"

// requireAuth verifies the X-Inbox-Auth token on every request and stores
// the authenticated user id in the gin context for handlers to read via
// authenticatedUserID. secretEnv names the environment variable holding
// the shared signing secret (per spec.md §6's HMAC-SHA256 scheme).
func requireAuth(secretEnv string, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := os.Getenv(secretEnv)
		raw := c.GetHeader(auth.HeaderName)
		userID, err := auth.Verify([]byte(secret), raw, maxAge, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func authenticatedUserID(c *gin.Context) int64 {
	v, _ := c.Get(userIDContextKey)
	userID, _ := v.(int64)
	return userID
}
