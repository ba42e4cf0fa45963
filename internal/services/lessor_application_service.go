package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"rental_backend/internal/logger"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// LessorApplicationService - заявки на роль арендодателя.
// Статус меняется только pending -> approved или pending -> rejected.
type LessorApplicationService interface {
	Submit(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateLessorApplicationRequest) (*dto.LessorApplicationResponse, error)
	GetMine(ctx context.Context, db *gorm.DB, userID string) (*dto.LessorApplicationResponse, error)

	// Admin
	List(ctx context.Context, db *gorm.DB, query dto.LessorApplicationQuery) (*dto.LessorApplicationListResponse, error)
	Get(ctx context.Context, db *gorm.DB, applicationID string) (*dto.LessorApplicationResponse, error)
	Approve(ctx context.Context, db *gorm.DB, adminID, applicationID string) (*dto.LessorApplicationResponse, error)
	Reject(ctx context.Context, db *gorm.DB, adminID, applicationID, reason string) (*dto.LessorApplicationResponse, error)
	Delete(ctx context.Context, db *gorm.DB, applicationID string) error
}

type lessorApplicationService struct {
	applicationRepo     repositories.LessorApplicationRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
	emailService        *EmailService
	cooldown            time.Duration
	now                 func() time.Time
}

func NewLessorApplicationService(
	applicationRepo repositories.LessorApplicationRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	emailService *EmailService,
	cooldown time.Duration,
) LessorApplicationService {
	return &lessorApplicationService{
		applicationRepo:     applicationRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		emailService:        emailService,
		cooldown:            cooldown,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

func (s *lessorApplicationService) Submit(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateLessorApplicationRequest) (*dto.LessorApplicationResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	if user.Role != models.UserRoleUser {
		return nil, apperrors.ErrApplicationNotAllowed
	}

	if _, err := s.applicationRepo.FindPendingByUser(tx, userID); err == nil {
		return nil, apperrors.ErrApplicationPending
	} else if !errors.Is(err, repositories.ErrLessorApplicationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	app := &models.LessorApplication{
		UserID:         userID,
		FullName:       strings.TrimSpace(req.FullName),
		Phone:          strings.TrimSpace(req.Phone),
		IdentityNumber: strings.TrimSpace(req.IdentityNumber),
		Note:           req.Note,
		Status:         models.LessorApplicationPending,
	}
	if err := s.applicationRepo.Create(tx, app); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Lessor application submitted", "application_id", app.ID, "user_id", userID)
	resp := s.toResponse(app)
	return &resp, nil
}

func (s *lessorApplicationService) GetMine(ctx context.Context, db *gorm.DB, userID string) (*dto.LessorApplicationResponse, error) {
	app, err := s.applicationRepo.FindLatestByUser(db, userID)
	if err != nil {
		return nil, handleLessorApplicationError(err)
	}
	resp := s.toResponse(app)
	return &resp, nil
}

func (s *lessorApplicationService) List(ctx context.Context, db *gorm.DB, query dto.LessorApplicationQuery) (*dto.LessorApplicationListResponse, error) {
	apps, total, err := s.applicationRepo.List(db, repositories.LessorApplicationFilter{
		Status:   models.LessorApplicationStatus(query.Status),
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.LessorApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, dto.NewLessorApplicationResponse(&apps[i]))
	}
	return &dto.LessorApplicationListResponse{
		Applications: items,
		Pagination:   dto.NewPagination(total, query.Page, query.PageSize),
	}, nil
}

func (s *lessorApplicationService) Get(ctx context.Context, db *gorm.DB, applicationID string) (*dto.LessorApplicationResponse, error) {
	app, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, handleLessorApplicationError(err)
	}
	resp := dto.NewLessorApplicationResponse(app)
	return &resp, nil
}

// Approve выдает роль lessor, пишет уведомление и фиксирует решение в одной транзакции.
// Письмо уходит после коммита, его ошибка решение не отменяет.
func (s *lessorApplicationService) Approve(ctx context.Context, db *gorm.DB, adminID, applicationID string) (*dto.LessorApplicationResponse, error) {
	app, err := s.decide(ctx, db, adminID, applicationID, models.LessorApplicationApproved, "")
	if err != nil {
		return nil, err
	}

	if err := s.emailService.SendLessorApproved(ctx, app.User.Email, app.User.Name); err != nil {
		logger.CtxWarn(ctx, "Approval email not delivered", "application_id", app.ID, "error", err)
	}

	resp := dto.NewLessorApplicationResponse(app)
	return &resp, nil
}

func (s *lessorApplicationService) Reject(ctx context.Context, db *gorm.DB, adminID, applicationID, reason string) (*dto.LessorApplicationResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.ValidationError(map[string]string{"reason": "This field is required"})
	}

	app, err := s.decide(ctx, db, adminID, applicationID, models.LessorApplicationRejected, reason)
	if err != nil {
		return nil, err
	}

	if err := s.emailService.SendLessorRejected(ctx, app.User.Email, app.User.Name, reason); err != nil {
		logger.CtxWarn(ctx, "Rejection email not delivered", "application_id", app.ID, "error", err)
	}

	resp := dto.NewLessorApplicationResponse(app)
	return &resp, nil
}

func (s *lessorApplicationService) decide(ctx context.Context, db *gorm.DB, adminID, applicationID string, status models.LessorApplicationStatus, reason string) (*models.LessorApplication, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.applicationRepo.FindByID(tx, applicationID)
	if err != nil {
		return nil, handleLessorApplicationError(err)
	}
	if !app.Status.CanTransitionTo(status) {
		return nil, apperrors.ErrApplicationAlreadyReviewed
	}

	now := s.now()
	// Условный UPDATE: параллельное решение по той же заявке получит 409
	if err := s.applicationRepo.UpdateDecision(tx, app.ID, repositories.LessorDecision{
		Status:          status,
		RejectionReason: reason,
		ReviewedBy:      adminID,
		ReviewedAt:      now,
	}); err != nil {
		return nil, handleLessorApplicationError(err)
	}

	var notificationType, title, message string
	if status == models.LessorApplicationApproved {
		// администратора не понижаем
		if app.User.Role == models.UserRoleUser {
			if err := s.userRepo.UpdateRole(tx, app.UserID, models.UserRoleLessor); err != nil {
				return nil, handleUserError(err)
			}
			app.User.Role = models.UserRoleLessor
		}
		notificationType = models.NotificationLessorApproved
		title = "Lessor application approved"
		message = "You can now publish rental listings"
	} else {
		notificationType = models.NotificationLessorRejected
		title = "Lessor application rejected"
		message = "Reason: " + reason
	}

	if err := s.notificationService.Notify(tx, app.UserID, notificationType, title, message,
		map[string]interface{}{"application_id": app.ID, "status": string(status)},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	app.Status = status
	app.RejectionReason = reason
	app.ReviewedBy = &adminID
	app.ReviewedAt = &now

	logger.CtxInfo(ctx, "Lessor application decided", "application_id", app.ID, "status", status, "admin_id", adminID)
	return app, nil
}

func (s *lessorApplicationService) Delete(ctx context.Context, db *gorm.DB, applicationID string) error {
	if err := s.applicationRepo.Delete(db, applicationID); err != nil {
		return handleLessorApplicationError(err)
	}
	logger.CtxInfo(ctx, "Lessor application deleted", "application_id", applicationID)
	return nil
}

func (s *lessorApplicationService) toResponse(app *models.LessorApplication) dto.LessorApplicationResponse {
	resp := dto.NewLessorApplicationResponse(app)
	if s.cooldown > 0 {
		available := app.CreatedAt.Add(s.cooldown)
		resp.ResubmitAvailableAt = &available
	}
	return resp
}

func handleLessorApplicationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrLessorApplicationNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrLessorApplicationNotPending):
		return apperrors.ErrApplicationAlreadyReviewed
	}
	return apperrors.InternalError(err)
}
