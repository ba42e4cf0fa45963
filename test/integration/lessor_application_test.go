package integration_test

import (
	"net/http"
	"testing"

	"rental_backend/internal/models"
	"rental_backend/internal/services/dto"
	"rental_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applicationBody() map[string]interface{} {
	return map[string]interface{}{
		"full_name":       "Tran Thi B",
		"phone":           "+84 912 345 678",
		"identity_number": "012345678901",
		"note":            "Сдаю две квартиры",
	}
}

// TestLessorApplication_ApproveFlow - заявка, одобрение, новая роль дает право публиковать
func TestLessorApplication_ApproveFlow(t *testing.T) {
	ts := GetTestServer(t)

	userToken, user := helpers.CreateAndLoginUser(t, ts, "Applicant", models.UserRoleUser)
	adminToken, _ := helpers.CreateAndLoginUser(t, ts, "Admin", models.UserRoleAdmin)

	// до одобрения создавать объявления нельзя
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/posts", userToken, map[string]interface{}{"title": "Квартира в центре"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/lessor-applications", userToken, applicationBody())
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var app dto.LessorApplicationResponse
	helpers.DecodeJSON(t, body, &app)
	assert.Equal(t, models.LessorApplicationPending, app.Status)

	// вторая заявка на рассмотрении запрещена
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/lessor-applications", userToken, applicationBody())
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// рассматривать может только администратор
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/lessor-applications/"+app.ID+"/approve", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/lessor-applications/"+app.ID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	helpers.DecodeJSON(t, body, &app)
	assert.Equal(t, models.LessorApplicationApproved, app.Status)
	assert.NotNil(t, app.ReviewedAt)

	// повторное решение по той же заявке
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/lessor-applications/"+app.ID+"/reject", adminToken, map[string]interface{}{"reason": "Передумали"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	var stored models.User
	require.NoError(t, ts.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.UserRoleLessor, stored.Role)

	var notifications int64
	require.NoError(t, ts.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)

	// роль в токене обновляется после повторного входа
	lessorToken := helpers.Login(t, ts, user.Email)
	catalog := helpers.CreateCatalog(t, ts.DB)
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/posts", lessorToken, map[string]interface{}{
		"category_id": catalog.Category.ID,
		"title":       "Квартира в центре",
		"price":       5000000,
		"area":        40,
		"address":     "1 Hàng Bài",
		"province_id": catalog.Province.ID,
		"district_id": catalog.District.ID,
		"status":      "published",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode, body)
}

// TestLessorApplication_RejectAndResubmit - после отказа можно подать заново
func TestLessorApplication_RejectAndResubmit(t *testing.T) {
	ts := GetTestServer(t)

	userToken, user := helpers.CreateAndLoginUser(t, ts, "Applicant", models.UserRoleUser)
	adminToken, _ := helpers.CreateAndLoginUser(t, ts, "Admin", models.UserRoleAdmin)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/lessor-applications", userToken, applicationBody())
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var app dto.LessorApplicationResponse
	helpers.DecodeJSON(t, body, &app)

	// причина обязательна
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/lessor-applications/"+app.ID+"/reject", adminToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/lessor-applications/"+app.ID+"/reject", adminToken, map[string]interface{}{"reason": "Документы не читаются"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/lessor-applications/me", userToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var mine dto.LessorApplicationResponse
	helpers.DecodeJSON(t, body, &mine)
	assert.Equal(t, models.LessorApplicationRejected, mine.Status)
	assert.Equal(t, "Документы не читаются", mine.RejectionReason)
	assert.NotNil(t, mine.ResubmitAvailableAt)

	var stored models.User
	require.NoError(t, ts.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.UserRoleUser, stored.Role)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/lessor-applications", userToken, applicationBody())
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}
