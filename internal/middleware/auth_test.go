package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental_backend/internal/auth"
	"rental_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.Init("test-secret", time.Hour)
}

func tokenFor(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	token, _, err := auth.GenerateToken(userID, string(role))
	require.NoError(t, err)
	return token
}

func newProtectedRouter(permission string) *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), RequirePermission(permission), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	r.GET("/optional", OptionalAuthMiddleware(), func(c *gin.Context) {
		role, _ := GetRole(c)
		c.String(http.StatusOK, GetUserID(c)+"|"+string(role))
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequirePermission(t *testing.T) {
	r := newProtectedRouter(auth.PermLessorReview)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"user", tokenFor(t, "u1", models.UserRoleUser), http.StatusForbidden},
		{"lessor", tokenFor(t, "u2", models.UserRoleLessor), http.StatusForbidden},
		{"admin", tokenFor(t, "u3", models.UserRoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, "/protected", tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequirePermission_ErrorBody(t *testing.T) {
	r := newProtectedRouter(auth.PermPostsWrite)

	w := doRequest(r, "/protected", tokenFor(t, "u1", models.UserRoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"FORBIDDEN"`)

	w = doRequest(r, "/protected", tokenFor(t, "u2", models.UserRoleLessor))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2", w.Body.String())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := newProtectedRouter(auth.PermPostsWrite)

	// гость проходит без идентификатора
	w := doRequest(r, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "|", w.Body.String())

	w = doRequest(r, "/optional", tokenFor(t, "u7", models.UserRoleLessor))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u7|lessor", w.Body.String())
}
