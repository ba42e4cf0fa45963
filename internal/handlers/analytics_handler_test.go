package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"rental_backend/internal/models"
	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAnalyticsService struct {
	from, to time.Time
	limit    int
}

func (f *fakeAnalyticsService) GetPlatformOverview(ctx context.Context, db *gorm.DB, dateFrom, dateTo time.Time) (*dto.PlatformOverview, error) {
	if dateFrom.After(dateTo) {
		return nil, services.ErrInvalidDateRange
	}
	f.from, f.to = dateFrom, dateTo
	return &dto.PlatformOverview{DateFrom: dateFrom, DateTo: dateTo, NewUsers: 3}, nil
}

func (f *fakeAnalyticsService) GetPopularCategories(ctx context.Context, db *gorm.DB, limit int) ([]dto.CategoryStats, error) {
	f.limit = limit
	return []dto.CategoryStats{}, nil
}

func TestAnalyticsHandler_Overview(t *testing.T) {
	svc := &fakeAnalyticsService{}
	r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewAnalyticsHandler(base, svc) })
	admin := bearer(t, "admin-1", models.UserRoleAdmin)

	w := perform(r, http.MethodGet, "/api/v1/admin/analytics/overview", bearer(t, "u1", models.UserRoleLessor), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(r, http.MethodGet, "/api/v1/admin/analytics/overview", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, float64(30*24*time.Hour), float64(svc.to.Sub(svc.from)), float64(time.Minute))
	assert.Contains(t, w.Body.String(), `"new_users":3`)

	w = perform(r, http.MethodGet, "/api/v1/admin/analytics/overview?date_from=2024-02-01T00:00:00Z&date_to=2024-03-01T00:00:00Z", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), svc.from)

	w = perform(r, http.MethodGet, "/api/v1/admin/analytics/overview?date_from=yesterday", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/api/v1/admin/analytics/overview?date_from=2024-03-01T00:00:00Z&date_to=2024-02-01T00:00:00Z", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHandler_PopularCategories(t *testing.T) {
	svc := &fakeAnalyticsService{}
	r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewAnalyticsHandler(base, svc) })

	w := perform(r, http.MethodGet, "/api/v1/admin/analytics/categories/popular?limit=3", bearer(t, "admin-1", models.UserRoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, svc.limit)
}
