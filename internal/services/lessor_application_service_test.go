package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental_backend/internal/email"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"
)

func newLessorApplicationTestService(cooldown time.Duration) (LessorApplicationService, NotificationService) {
	notifications := NewNotificationService(repositories.NewNotificationRepository())
	svc := NewLessorApplicationService(
		repositories.NewLessorApplicationRepository(),
		repositories.NewUserRepository(),
		notifications,
		NewEmailService(email.NewLogProvider(email.NewTemplateManager())),
		cooldown,
	)
	return svc, notifications
}

func applicationRequest() *dto.CreateLessorApplicationRequest {
	return &dto.CreateLessorApplicationRequest{FullName: " Nguyen Van A ", Phone: "+84 912 345 678", IdentityNumber: "001099012345"}
}

func TestLessorApplicationService_ApproveOnce(t *testing.T) {
	db := newSQLiteDB(t)
	svc, notifications := newLessorApplicationTestService(15 * time.Minute)
	ctx := context.Background()

	admin := seedUser(t, db, "admin", models.UserRoleAdmin)
	applicant := seedUser(t, db, "applicant", models.UserRoleUser)

	app, err := svc.Submit(ctx, db, applicant.ID, applicationRequest())
	require.NoError(t, err)
	assert.Equal(t, models.LessorApplicationPending, app.Status)
	assert.Equal(t, "Nguyen Van A", app.FullName)

	_, err = svc.Submit(ctx, db, applicant.ID, applicationRequest())
	assert.ErrorIs(t, err, apperrors.ErrApplicationPending)

	approved, err := svc.Approve(ctx, db, admin.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LessorApplicationApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, admin.ID, *approved.ReviewedBy)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", applicant.ID).Error)
	assert.Equal(t, models.UserRoleLessor, user.Role)

	// решение окончательное
	_, err = svc.Reject(ctx, db, admin.ID, app.ID, "changed my mind")
	assert.ErrorIs(t, err, apperrors.ErrApplicationAlreadyReviewed)
	_, err = svc.Approve(ctx, db, admin.ID, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationAlreadyReviewed)

	unread, err := notifications.GetUnreadCount(db, applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// lessor больше подавать не может
	_, err = svc.Submit(ctx, db, applicant.ID, applicationRequest())
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotAllowed)
}

func TestLessorApplicationService_RejectKeepsRole(t *testing.T) {
	db := newSQLiteDB(t)
	svc, _ := newLessorApplicationTestService(15 * time.Minute)
	ctx := context.Background()

	admin := seedUser(t, db, "admin", models.UserRoleAdmin)
	applicant := seedUser(t, db, "applicant", models.UserRoleUser)

	app, err := svc.Submit(ctx, db, applicant.ID, applicationRequest())
	require.NoError(t, err)

	_, err = svc.Reject(ctx, db, admin.ID, app.ID, "   ")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	rejected, err := svc.Reject(ctx, db, admin.ID, app.ID, "Identity document unreadable")
	require.NoError(t, err)
	assert.Equal(t, models.LessorApplicationRejected, rejected.Status)
	assert.Equal(t, "Identity document unreadable", rejected.RejectionReason)

	_, err = svc.Approve(ctx, db, admin.ID, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationAlreadyReviewed)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", applicant.ID).Error)
	assert.Equal(t, models.UserRoleUser, user.Role)

	mine, err := svc.GetMine(ctx, db, applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LessorApplicationRejected, mine.Status)
	require.NotNil(t, mine.ResubmitAvailableAt)
	assert.WithinDuration(t, mine.CreatedAt.Add(15*time.Minute), *mine.ResubmitAvailableAt, time.Second)

	// подсказка не блокирует повторную подачу
	again, err := svc.Submit(ctx, db, applicant.ID, applicationRequest())
	require.NoError(t, err)
	assert.Equal(t, models.LessorApplicationPending, again.Status)
}
