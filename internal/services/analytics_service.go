package services

import (
	"context"
	"time"

	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

var ErrInvalidDateRange = apperrors.NewBadRequestError("date_from must not be after date_to")

type AnalyticsService interface {
	GetPlatformOverview(ctx context.Context, db *gorm.DB, dateFrom, dateTo time.Time) (*dto.PlatformOverview, error)
	GetPopularCategories(ctx context.Context, db *gorm.DB, limit int) ([]dto.CategoryStats, error)
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

// Platform Overview
func (s *analyticsService) GetPlatformOverview(ctx context.Context, db *gorm.DB, dateFrom, dateTo time.Time) (*dto.PlatformOverview, error) {
	if dateFrom.After(dateTo) {
		return nil, ErrInvalidDateRange
	}

	overview := &dto.PlatformOverview{DateFrom: dateFrom, DateTo: dateTo}

	var err error
	if overview.UsersByRole, err = s.analyticsRepo.CountGrouped(db, &models.User{}, "role", dateFrom, dateTo); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if overview.PostsByStatus, err = s.analyticsRepo.CountGrouped(db, &models.Post{}, "status", dateFrom, dateTo); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if overview.Applications, err = s.analyticsRepo.CountGrouped(db, &models.LessorApplication{}, "status", dateFrom, dateTo); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if overview.Appointments, err = s.analyticsRepo.CountGrouped(db, &models.Appointment{}, "status", dateFrom, dateTo); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if overview.NewReviews, err = s.analyticsRepo.CountCreated(db, &models.Review{}, dateFrom, dateTo); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if overview.AverageRating, overview.RatedReviews, err = s.analyticsRepo.RatingStats(db); err != nil {
		return nil, apperrors.InternalError(err)
	}

	overview.NewUsers = sumCounts(overview.UsersByRole)
	overview.NewPosts = sumCounts(overview.PostsByStatus)
	overview.PendingDecision = overview.Applications[string(models.LessorApplicationPending)]
	return overview, nil
}

func (s *analyticsService) GetPopularCategories(ctx context.Context, db *gorm.DB, limit int) ([]dto.CategoryStats, error) {
	rows, err := s.analyticsRepo.TopCategories(db, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats := make([]dto.CategoryStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, dto.CategoryStats{CategoryID: row.CategoryID, Name: row.Name, PostCount: row.PostCount})
	}
	return stats, nil
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, c := range counts {
		total += c
	}
	return total
}
