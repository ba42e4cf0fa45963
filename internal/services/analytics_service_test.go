package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAnalyticsRepo struct {
	grouped map[string]map[string]int64
	err     error
}

func (f *fakeAnalyticsRepo) CountGrouped(db *gorm.DB, model interface{}, column string, from, to time.Time) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var key string
	switch model.(type) {
	case *models.User:
		key = "users"
	case *models.Post:
		key = "posts"
	case *models.LessorApplication:
		key = "applications"
	case *models.Appointment:
		key = "appointments"
	}
	return f.grouped[key], nil
}

func (f *fakeAnalyticsRepo) CountCreated(db *gorm.DB, model interface{}, from, to time.Time) (int64, error) {
	return 7, nil
}

func (f *fakeAnalyticsRepo) RatingStats(db *gorm.DB) (float64, int64, error) {
	return 4.25, 4, nil
}

func (f *fakeAnalyticsRepo) TopCategories(db *gorm.DB, limit int) ([]repositories.CategoryCount, error) {
	return []repositories.CategoryCount{{CategoryID: 2, Name: "Căn hộ", PostCount: 12}}, nil
}

func TestAnalyticsService_GetPlatformOverview(t *testing.T) {
	repo := &fakeAnalyticsRepo{grouped: map[string]map[string]int64{
		"users":        {"user": 10, "lessor": 3, "admin": 1},
		"posts":        {"draft": 2, "published": 5},
		"applications": {"pending": 4, "approved": 1},
		"appointments": {"pending": 1},
	}}
	svc := NewAnalyticsService(repo)

	to := time.Now()
	overview, err := svc.GetPlatformOverview(context.Background(), nil, to.AddDate(0, 0, -30), to)
	require.NoError(t, err)

	assert.Equal(t, int64(14), overview.NewUsers)
	assert.Equal(t, int64(7), overview.NewPosts)
	assert.Equal(t, int64(4), overview.PendingDecision)
	assert.Equal(t, int64(7), overview.NewReviews)
	assert.InDelta(t, 4.25, overview.AverageRating, 0.0001)
	assert.Equal(t, int64(1), overview.Appointments["pending"])
}

func TestAnalyticsService_InvalidRange(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{})

	now := time.Now()
	_, err := svc.GetPlatformOverview(context.Background(), nil, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestAnalyticsService_RepositoryFailure(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{err: errors.New("connection reset")})

	now := time.Now()
	_, err := svc.GetPlatformOverview(context.Background(), nil, now.Add(-time.Hour), now)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInternalError, appErr.Code)
}

func TestAnalyticsService_GetPopularCategories(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{})

	stats, err := svc.GetPopularCategories(context.Background(), nil, 5)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Căn hộ", stats[0].Name)
	assert.Equal(t, int64(12), stats[0].PostCount)
}
