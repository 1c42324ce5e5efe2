package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func engineWith(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	handlers = append(handlers, func(c *gin.Context) {
		id := Identity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role, "request_id": GetRequestID(c)})
	})
	r.GET("/x", handlers...)
	return r
}

func get(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func fakeAuth(role string) Authenticator {
	return func(token string) (domain.RequestContext, error) {
		if token != "good" {
			return domain.RequestContext{}, domain.UnauthorizedError{Msg: "session expired due to inactivity"}
		}
		return domain.RequestContext{UserID: 7, Role: role, SessionID: "s1"}, nil
	}
}

func TestRequireAuth(t *testing.T) {
	r := engineWith(RequireAuth(fakeAuth("admin")))

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)

	w := get(r, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session expired due to inactivity")

	w = get(r, "bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestRequireRoles(t *testing.T) {
	admin := engineWith(RequireAuth(fakeAuth("Admin")), RequireRoles("admin"))
	assert.Equal(t, http.StatusOK, get(admin, "Bearer good").Code)

	user := engineWith(RequireAuth(fakeAuth("user")), RequireRoles("admin"))
	w := get(user, "Bearer good")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied. Admin privileges required.")

	anonymous := engineWith(RequireRoles("admin"))
	assert.Equal(t, http.StatusUnauthorized, get(anonymous, "").Code)
}

func TestRequestIDKeepsClientValue(t *testing.T) {
	r := engineWith()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = get(r, "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "tok", bearerToken("Bearer tok"))
	assert.Equal(t, "tok", bearerToken("  BEARER   tok "))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken("Token tok"))
}
