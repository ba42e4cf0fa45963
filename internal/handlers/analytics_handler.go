package handlers

import (
	"net/http"
	"time"

	"rental_backend/internal/middleware"
	"rental_backend/internal/models"
	"rental_backend/internal/services"
	"rental_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

// RegisterRoutes - сводка площадки, только администратор
func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/admin/analytics")
	analytics.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		analytics.GET("/overview", h.GetPlatformOverview)
		analytics.GET("/categories/popular", h.GetPopularCategories)
	}
}

// GetPlatformOverview godoc
// @Summary Сводка площадки за период
// @Tags admin
// @Produce json
// @Param date_from query string false "RFC3339, по умолчанию 30 дней назад"
// @Param date_to query string false "RFC3339, по умолчанию сейчас"
// @Success 200 {object} dto.PlatformOverview
// @Failure 400 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/analytics/overview [get]
func (h *AnalyticsHandler) GetPlatformOverview(c *gin.Context) {
	dateFrom, dateTo, err := h.parseDateRange(c)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid date range: dates must be RFC3339"))
		return
	}

	overview, err := h.analyticsService.GetPlatformOverview(c.Request.Context(), h.GetDB(c), dateFrom, dateTo)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetPopularCategories(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 10)

	categories, err := h.analyticsService.GetPopularCategories(c.Request.Context(), h.GetDB(c), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *AnalyticsHandler) parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	// По умолчанию: последние 30 дней
	dateTo := time.Now().UTC()
	dateFrom := dateTo.AddDate(0, 0, -30)

	if v := c.Query("date_from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		dateFrom = parsed
	}

	if v := c.Query("date_to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		dateTo = parsed
	}

	return dateFrom, dateTo, nil
}
