package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"rental_backend/internal/auth"
	"rental_backend/internal/middleware"
	"rental_backend/internal/models"
	"rental_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.Init("test-secret", time.Hour)
}

type routeRegistrar interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// newTestRouter собирает роутер как в приложении, но поверх БД-заглушки
func newTestRouter(t *testing.T, build func(base *BaseHandler) routeRegistrar) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.DBMiddleware(db))
	build(NewBaseHandler(validator.New())).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func bearer(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	token, _, err := auth.GenerateToken(userID, string(role))
	require.NoError(t, err)
	return token
}

func perform(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
