package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"rental_backend/internal/models"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLessorApplicationService struct {
	mineErr error

	calls   []string
	userID  string
	adminID string
	appID   string
	reason  string
}

func (f *fakeLessorApplicationService) Submit(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateLessorApplicationRequest) (*dto.LessorApplicationResponse, error) {
	f.calls = append(f.calls, "submit")
	f.userID = userID
	return &dto.LessorApplicationResponse{ID: "app-1", UserID: userID, FullName: req.FullName, Status: models.LessorApplicationPending}, nil
}

func (f *fakeLessorApplicationService) GetMine(ctx context.Context, db *gorm.DB, userID string) (*dto.LessorApplicationResponse, error) {
	f.calls = append(f.calls, "mine")
	if f.mineErr != nil {
		return nil, f.mineErr
	}
	return &dto.LessorApplicationResponse{ID: "app-1", UserID: userID}, nil
}

func (f *fakeLessorApplicationService) List(ctx context.Context, db *gorm.DB, query dto.LessorApplicationQuery) (*dto.LessorApplicationListResponse, error) {
	f.calls = append(f.calls, "list")
	return &dto.LessorApplicationListResponse{}, nil
}

func (f *fakeLessorApplicationService) Get(ctx context.Context, db *gorm.DB, applicationID string) (*dto.LessorApplicationResponse, error) {
	f.calls = append(f.calls, "get")
	return &dto.LessorApplicationResponse{ID: applicationID}, nil
}

func (f *fakeLessorApplicationService) Approve(ctx context.Context, db *gorm.DB, adminID, applicationID string) (*dto.LessorApplicationResponse, error) {
	f.calls = append(f.calls, "approve")
	f.adminID, f.appID = adminID, applicationID
	return &dto.LessorApplicationResponse{ID: applicationID, Status: models.LessorApplicationApproved}, nil
}

func (f *fakeLessorApplicationService) Reject(ctx context.Context, db *gorm.DB, adminID, applicationID, reason string) (*dto.LessorApplicationResponse, error) {
	f.calls = append(f.calls, "reject")
	f.adminID, f.appID, f.reason = adminID, applicationID, reason
	return &dto.LessorApplicationResponse{ID: applicationID, Status: models.LessorApplicationRejected, RejectionReason: reason}, nil
}

func (f *fakeLessorApplicationService) Delete(ctx context.Context, db *gorm.DB, applicationID string) error {
	f.calls = append(f.calls, "delete")
	return nil
}

func validApplication() map[string]interface{} {
	return map[string]interface{}{
		"full_name":       "Le Van C",
		"phone":           "0912345678",
		"identity_number": "079123456789",
	}
}

func TestLessorApplicationHandler_Submit(t *testing.T) {
	tests := []struct {
		name   string
		role   models.UserRole
		body   map[string]interface{}
		status int
	}{
		{"user", models.UserRoleUser, validApplication(), http.StatusCreated},
		{"lessor cannot apply", models.UserRoleLessor, validApplication(), http.StatusForbidden},
		{"admin cannot apply", models.UserRoleAdmin, validApplication(), http.StatusForbidden},
		{"bad phone", models.UserRoleUser, map[string]interface{}{"full_name": "Le Van C", "phone": "call me", "identity_number": "079123456789"}, http.StatusBadRequest},
		{"missing identity", models.UserRoleUser, map[string]interface{}{"full_name": "Le Van C", "phone": "0912345678"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeLessorApplicationService{}
			r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewLessorApplicationHandler(base, svc) })

			w := perform(r, http.MethodPost, "/api/v1/lessor-applications", bearer(t, "user-1", tt.role), tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusCreated {
				assert.Equal(t, "user-1", svc.userID)
				assert.Contains(t, w.Body.String(), `"status":"pending"`)
			} else {
				assert.Empty(t, svc.calls)
			}
		})
	}
}

func TestLessorApplicationHandler_GetMineNotFound(t *testing.T) {
	svc := &fakeLessorApplicationService{mineErr: apperrors.ErrNotFound(errors.New("no application"))}
	r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewLessorApplicationHandler(base, svc) })

	w := perform(r, http.MethodGet, "/api/v1/lessor-applications/me", bearer(t, "user-1", models.UserRoleUser), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLessorApplicationHandler_Decisions(t *testing.T) {
	svc := &fakeLessorApplicationService{}
	r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewLessorApplicationHandler(base, svc) })
	admin := bearer(t, "admin-1", models.UserRoleAdmin)

	// не администратор
	w := perform(r, http.MethodPut, "/api/v1/admin/lessor-applications/app-1/approve", bearer(t, "u", models.UserRoleLessor), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(r, http.MethodPut, "/api/v1/admin/lessor-applications/app-1/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "admin-1", svc.adminID)
	assert.Equal(t, "app-1", svc.appID)

	// причина отказа обязательна
	w = perform(r, http.MethodPut, "/api/v1/admin/lessor-applications/app-2/reject", admin, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPut, "/api/v1/admin/lessor-applications/app-2/reject", admin, map[string]interface{}{"reason": "Нет документов"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Нет документов", svc.reason)
	assert.Contains(t, w.Body.String(), `"rejection_reason":"Нет документов"`)

	assert.Equal(t, []string{"approve", "reject"}, svc.calls)
}
