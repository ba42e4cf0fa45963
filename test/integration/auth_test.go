package integration_test

import (
	"net/http"
	"testing"

	"rental_backend/internal/models"
	"rental_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterLoginAndProfile(t *testing.T) {
	ts := GetTestServer(t)

	registerBody := map[string]interface{}{
		"name":     "Nguyen Van A",
		"email":    "renter@test.com",
		"password": helpers.DefaultPassword,
		"role":     "admin", // игнорируется
	}
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.Contains(t, body, `"role":"user"`)

	// повторная регистрация с тем же email
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "renter@test.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	token := helpers.Login(t, ts, "renter@test.com")
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "renter@test.com")
}

func TestAuth_ProtectedRoutes(t *testing.T) {
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	userToken, _ := helpers.CreateAndLoginUser(t, ts, "Plain User", models.UserRoleUser)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	adminToken, _ := helpers.CreateAndLoginUser(t, ts, "Admin", models.UserRoleAdmin)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
