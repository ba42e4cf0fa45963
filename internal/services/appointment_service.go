package services

import (
	"context"
	"errors"
	"time"

	"rental_backend/internal/auth"
	"rental_backend/internal/logger"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AppointmentService interface {
	Create(ctx context.Context, db *gorm.DB, renterID string, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, db *gorm.DB, viewer Viewer, appointmentID string) (*dto.AppointmentResponse, error)
	ListMine(ctx context.Context, db *gorm.DB, renterID string, query dto.AppointmentQuery) (*dto.AppointmentListResponse, error)
	ListIncoming(ctx context.Context, db *gorm.DB, ownerID string, query dto.AppointmentQuery) (*dto.AppointmentListResponse, error)

	Accept(ctx context.Context, db *gorm.DB, ownerID, appointmentID string) (*dto.AppointmentResponse, error)
	Decline(ctx context.Context, db *gorm.DB, ownerID, appointmentID string) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, db *gorm.DB, renterID, appointmentID, reason string) (*dto.AppointmentResponse, error)

	// CompletePast переводит прошедшие принятые просмотры в completed
	CompletePast(ctx context.Context, db *gorm.DB) (int64, error)
}

type appointmentService struct {
	appointmentRepo     repositories.AppointmentRepository
	postRepo            repositories.PostRepository
	notificationService NotificationService
	now                 func() time.Time
}

func NewAppointmentService(
	appointmentRepo repositories.AppointmentRepository,
	postRepo repositories.PostRepository,
	notificationService NotificationService,
) AppointmentService {
	return &appointmentService{
		appointmentRepo:     appointmentRepo,
		postRepo:            postRepo,
		notificationService: notificationService,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

func (s *appointmentService) Create(ctx context.Context, db *gorm.DB, renterID string, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !req.AppointmentTime.After(s.now()) {
		return nil, apperrors.ErrAppointmentInPast
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	post, err := s.postRepo.FindByID(tx, req.PostID)
	if err != nil {
		return nil, handlePostError(err)
	}
	if !post.IsPublished() {
		return nil, apperrors.ErrPostNotPublished
	}
	if post.IsOwnedBy(renterID) {
		return nil, apperrors.ErrOwnPostAppointment
	}

	appointment := &models.Appointment{
		PostID:          post.ID,
		RenterID:        renterID,
		OwnerID:         post.OwnerID,
		AppointmentTime: req.AppointmentTime.UTC(),
		Note:            req.Note,
		Status:          models.AppointmentPending,
	}
	if err := s.appointmentRepo.Create(tx, appointment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationService.Notify(tx, post.OwnerID, models.NotificationAppointmentNew,
		"New viewing request", "A viewing of \""+post.Title+"\" was requested",
		map[string]interface{}{"appointment_id": appointment.ID, "post_id": post.ID},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Appointment created", "appointment_id", appointment.ID, "post_id", post.ID)
	return s.load(db, appointment.ID)
}

func (s *appointmentService) Get(ctx context.Context, db *gorm.DB, viewer Viewer, appointmentID string) (*dto.AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		return nil, handleAppointmentError(err)
	}
	if !appointment.IsParticipant(viewer.UserID) && !auth.HasPermission(viewer.Role, auth.PermAppointmentsAdmin) {
		return nil, apperrors.ErrAppointmentAccessDenied
	}
	resp := dto.NewAppointmentResponse(appointment)
	return &resp, nil
}

func (s *appointmentService) ListMine(ctx context.Context, db *gorm.DB, renterID string, query dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	appointments, total, err := s.appointmentRepo.ListByRenter(db, renterID, appointmentFilter(query))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildAppointmentList(appointments, total, query), nil
}

func (s *appointmentService) ListIncoming(ctx context.Context, db *gorm.DB, ownerID string, query dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	appointments, total, err := s.appointmentRepo.ListByOwner(db, ownerID, appointmentFilter(query))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildAppointmentList(appointments, total, query), nil
}

func (s *appointmentService) Accept(ctx context.Context, db *gorm.DB, ownerID, appointmentID string) (*dto.AppointmentResponse, error) {
	return s.transition(ctx, db, appointmentID, models.AppointmentAccepted, "", func(a *models.Appointment) bool {
		return a.OwnerID == ownerID
	})
}

func (s *appointmentService) Decline(ctx context.Context, db *gorm.DB, ownerID, appointmentID string) (*dto.AppointmentResponse, error) {
	return s.transition(ctx, db, appointmentID, models.AppointmentDeclined, "", func(a *models.Appointment) bool {
		return a.OwnerID == ownerID
	})
}

func (s *appointmentService) Cancel(ctx context.Context, db *gorm.DB, renterID, appointmentID, reason string) (*dto.AppointmentResponse, error) {
	return s.transition(ctx, db, appointmentID, models.AppointmentCancelled, reason, func(a *models.Appointment) bool {
		return a.RenterID == renterID
	})
}

// transition проверяет право и допустимость перехода, меняет статус и уведомляет другую сторону
func (s *appointmentService) transition(ctx context.Context, db *gorm.DB, appointmentID string, to models.AppointmentStatus, reason string, allowed func(*models.Appointment) bool) (*dto.AppointmentResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	appointment, err := s.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		return nil, handleAppointmentError(err)
	}
	if !allowed(appointment) {
		return nil, apperrors.ErrAppointmentAccessDenied
	}
	if !appointment.Status.CanTransitionTo(to) {
		return nil, apperrors.ErrInvalidAppointmentStatus
	}

	if err := s.appointmentRepo.UpdateStatus(tx, appointment.ID, appointment.Status, to, reason); err != nil {
		return nil, handleAppointmentError(err)
	}

	recipient, notificationType, title := appointment.RenterID, "", ""
	switch to {
	case models.AppointmentAccepted:
		notificationType, title = models.NotificationAppointmentAccepted, "Viewing request accepted"
	case models.AppointmentDeclined:
		notificationType, title = models.NotificationAppointmentDeclined, "Viewing request declined"
	case models.AppointmentCancelled:
		recipient = appointment.OwnerID
		notificationType, title = models.NotificationAppointmentCanceled, "Viewing cancelled"
	}
	message := "Viewing of \"" + appointment.Post.Title + "\" at " + appointment.AppointmentTime.Format(time.RFC3339)
	if err := s.notificationService.Notify(tx, recipient, notificationType, title, message,
		map[string]interface{}{"appointment_id": appointment.ID, "post_id": appointment.PostID, "status": string(to)},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Appointment status changed", "appointment_id", appointment.ID, "from", appointment.Status, "to", to)
	return s.load(db, appointment.ID)
}

func (s *appointmentService) CompletePast(ctx context.Context, db *gorm.DB) (int64, error) {
	return s.appointmentRepo.CompletePast(db.WithContext(ctx), s.now())
}

func (s *appointmentService) load(db *gorm.DB, appointmentID string) (*dto.AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		return nil, handleAppointmentError(err)
	}
	resp := dto.NewAppointmentResponse(appointment)
	return &resp, nil
}

func appointmentFilter(query dto.AppointmentQuery) repositories.AppointmentFilter {
	return repositories.AppointmentFilter{
		Status:   models.AppointmentStatus(query.Status),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
}

func buildAppointmentList(appointments []models.Appointment, total int64, query dto.AppointmentQuery) *dto.AppointmentListResponse {
	items := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		items = append(items, dto.NewAppointmentResponse(&appointments[i]))
	}
	return &dto.AppointmentListResponse{
		Appointments: items,
		Pagination:   dto.NewPagination(total, query.Page, query.PageSize),
	}
}

func handleAppointmentError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrAppointmentNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrAppointmentStatusChanged):
		return apperrors.ErrInvalidAppointmentStatus
	}
	return apperrors.InternalError(err)
}
