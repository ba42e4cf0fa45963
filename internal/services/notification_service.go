package services

import (
	"context"
	"errors"
	"time"

	"rental_backend/internal/logger"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	// Notify добавляет запись во входящие пользователя. Вызывается другими сервисами внутри их транзакций.
	Notify(db *gorm.DB, userID, notificationType, title, message string, data map[string]interface{}) error

	GetUserNotifications(db *gorm.DB, userID string, query dto.NotificationQuery) (*dto.NotificationListResponse, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
	DeleteNotification(db *gorm.DB, userID, notificationID string) error

	// CleanOldNotifications удаляет прочитанные уведомления старше maxAge
	CleanOldNotifications(ctx context.Context, db *gorm.DB, maxAge time.Duration) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) Notify(db *gorm.DB, userID, notificationType, title, message string, data map[string]interface{}) error {
	payload, err := repositories.MarshalNotificationData(data)
	if err != nil {
		return apperrors.InternalError(err)
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data:    payload,
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, query dto.NotificationQuery) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindUserNotifications(db, userID, repositories.NotificationCriteria{
		UnreadOnly: query.UnreadOnly,
		Type:       query.Type,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.NewNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Pagination:    dto.NewPagination(total, query.Page, query.PageSize),
	}, nil
}

func (s *notificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(db, userID, notificationID); err != nil {
		return handleNotificationError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(db *gorm.DB, userID string) error {
	if _, err := s.notificationRepo.MarkAllAsRead(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) DeleteNotification(db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.Delete(db, userID, notificationID); err != nil {
		return handleNotificationError(err)
	}
	return nil
}

func (s *notificationService) CleanOldNotifications(ctx context.Context, db *gorm.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	deleted, err := s.notificationRepo.DeleteReadOlderThan(db.WithContext(ctx), cutoff)
	if err != nil {
		return 0, err
	}
	logger.CtxDebug(ctx, "Old notifications removed", "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}

func handleNotificationError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
