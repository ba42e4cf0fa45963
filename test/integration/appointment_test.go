package integration_test

import (
	"net/http"
	"testing"
	"time"

	"rental_backend/internal/models"
	"rental_backend/internal/services/dto"
	"rental_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointment_Lifecycle(t *testing.T) {
	ts := GetTestServer(t)

	ownerToken, owner := helpers.CreateAndLoginUser(t, ts, "Lessor", models.UserRoleLessor)
	renterToken, renter := helpers.CreateAndLoginUser(t, ts, "Renter", models.UserRoleUser)
	post := helpers.CreatePost(t, ts.DB, owner.ID, helpers.CreateCatalog(t, ts.DB), models.PostStatusPublished)

	// время в прошлом
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/appointments", renterToken, map[string]interface{}{
		"post_id":          post.ID,
		"appointment_time": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// свое объявление
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/appointments", ownerToken, map[string]interface{}{
		"post_id":          post.ID,
		"appointment_time": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/appointments", renterToken, map[string]interface{}{
		"post_id":          post.ID,
		"appointment_time": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"note":             "После работы",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var appointment dto.AppointmentResponse
	helpers.DecodeJSON(t, body, &appointment)
	assert.Equal(t, models.AppointmentPending, appointment.Status)
	assert.Equal(t, owner.ID, appointment.OwnerID)

	// входящие у владельца
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/appointments/incoming", ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var incoming dto.AppointmentListResponse
	helpers.DecodeJSON(t, body, &incoming)
	require.Len(t, incoming.Appointments, 1)

	// арендатор не может принять свою же заявку
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/appointments/"+appointment.ID+"/accept", renterToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/appointments/"+appointment.ID+"/accept", ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	helpers.DecodeJSON(t, body, &appointment)
	assert.Equal(t, models.AppointmentAccepted, appointment.Status)

	// принятый просмотр нельзя отклонить
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/appointments/"+appointment.ID+"/decline", ownerToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/appointments/"+appointment.ID+"/cancel", renterToken, map[string]interface{}{"reason": "Нашел другое"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	helpers.DecodeJSON(t, body, &appointment)
	assert.Equal(t, models.AppointmentCancelled, appointment.Status)
	assert.Equal(t, "Нашел другое", appointment.CancelReason)

	// уведомления: владельцу о заявке и отмене, арендатору о принятии
	var ownerNotifications, renterNotifications int64
	require.NoError(t, ts.DB.Model(&models.Notification{}).Where("user_id = ?", owner.ID).Count(&ownerNotifications).Error)
	require.NoError(t, ts.DB.Model(&models.Notification{}).Where("user_id = ?", renter.ID).Count(&renterNotifications).Error)
	assert.Equal(t, int64(2), ownerNotifications)
	assert.Equal(t, int64(1), renterNotifications)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/unread-count", ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"count":2`)
}

func TestAppointment_DraftPostRejected(t *testing.T) {
	ts := GetTestServer(t)

	_, owner := helpers.CreateAndLoginUser(t, ts, "Lessor", models.UserRoleLessor)
	renterToken, _ := helpers.CreateAndLoginUser(t, ts, "Renter", models.UserRoleUser)
	post := helpers.CreatePost(t, ts.DB, owner.ID, helpers.CreateCatalog(t, ts.DB), models.PostStatusDraft)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/appointments", renterToken, map[string]interface{}{
		"post_id":          post.ID,
		"appointment_time": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestChatbot_UnavailableWithoutProvider(t *testing.T) {
	ts := GetTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chatbot/message", "", map[string]interface{}{"message": "Ищу квартиру до 5 млн"})
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode, body)
}
