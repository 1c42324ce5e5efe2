package middleware

import (
	"net/http"
	"strings"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth.
const (
	UserIDKey    = "userID"
	UserRoleKey  = "userRole"
	SessionIDKey = "sessionID"
)

// Authenticator resolves a bearer token into the caller's identity.
type Authenticator func(token string) (domain.RequestContext, error)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity on the context for RequireRoles and handlers.
func RequireAuth(authenticate Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		rc, err := authenticate(token)
		if err != nil {
			msg := "invalid or expired session"
			if domain.IsUnauthorized(err) {
				msg = err.Error()
			}
			abortUnauthorized(c, msg)
			return
		}
		c.Set(UserIDKey, rc.UserID)
		c.Set(UserRoleKey, rc.Role)
		c.Set(SessionIDKey, rc.SessionID)
		c.Next()
	}
}

// Identity returns what RequireAuth stored on the context.
func Identity(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID:    c.GetInt64(UserIDKey),
		Role:      c.GetString(UserRoleKey),
		SessionID: c.GetString(SessionIDKey),
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}
