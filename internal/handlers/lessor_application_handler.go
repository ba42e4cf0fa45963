package handlers

import (
	"net/http"

	"rental_backend/internal/auth"
	"rental_backend/internal/middleware"
	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type LessorApplicationHandler struct {
	*BaseHandler
	applicationService services.LessorApplicationService
}

func NewLessorApplicationHandler(base *BaseHandler, applicationService services.LessorApplicationService) *LessorApplicationHandler {
	return &LessorApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *LessorApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	applicant := r.Group("/lessor-applications")
	applicant.Use(middleware.AuthMiddleware())
	{
		applicant.POST("", middleware.RequirePermission(auth.PermLessorApply), h.Submit)
		applicant.GET("/me", h.GetMine)
	}

	admin := r.Group("/admin/lessor-applications")
	admin.Use(middleware.AuthMiddleware(), middleware.RequirePermission(auth.PermLessorReview))
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id/approve", h.Approve)
		admin.PUT("/:id/reject", h.Reject)
		admin.DELETE("/:id", h.Delete)
	}
}

// Submit godoc
// @Summary Подать заявку на роль арендодателя
// @Tags lessor-applications
// @Accept json
// @Produce json
// @Param request body dto.CreateLessorApplicationRequest true "Заявка"
// @Success 201 {object} dto.LessorApplicationResponse
// @Failure 403 {object} apperrors.ErrorResponse "Роль не user"
// @Failure 409 {object} apperrors.ErrorResponse "Уже есть заявка на рассмотрении"
// @Security BearerAuth
// @Router /api/v1/lessor-applications [post]
func (h *LessorApplicationHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLessorApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.Submit(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// GetMine godoc
// @Summary Последняя заявка текущего пользователя
// @Tags lessor-applications
// @Produce json
// @Success 200 {object} dto.LessorApplicationResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/lessor-applications/me [get]
func (h *LessorApplicationHandler) GetMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	app, err := h.applicationService.GetMine(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// --- Admin ---

func (h *LessorApplicationHandler) List(c *gin.Context) {
	var query dto.LessorApplicationQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	ApplyPagination(&query.Page, &query.PageSize)

	apps, err := h.applicationService.List(c.Request.Context(), h.GetDB(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *LessorApplicationHandler) Get(c *gin.Context) {
	app, err := h.applicationService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// Approve godoc
// @Summary Одобрить заявку
// @Description pending -> approved, пользователь получает роль lessor
// @Tags admin
// @Produce json
// @Param id path string true "ID заявки"
// @Success 200 {object} dto.LessorApplicationResponse
// @Failure 409 {object} apperrors.ErrorResponse "Заявка уже рассмотрена"
// @Security BearerAuth
// @Router /api/v1/admin/lessor-applications/{id}/approve [put]
func (h *LessorApplicationHandler) Approve(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	app, err := h.applicationService.Approve(c.Request.Context(), h.GetDB(c), adminID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// Reject godoc
// @Summary Отклонить заявку
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID заявки"
// @Param request body dto.RejectLessorApplicationRequest true "Причина"
// @Success 200 {object} dto.LessorApplicationResponse
// @Failure 409 {object} apperrors.ErrorResponse "Заявка уже рассмотрена"
// @Security BearerAuth
// @Router /api/v1/admin/lessor-applications/{id}/reject [put]
func (h *LessorApplicationHandler) Reject(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectLessorApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.Reject(c.Request.Context(), h.GetDB(c), adminID, c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *LessorApplicationHandler) Delete(c *gin.Context) {
	if err := h.applicationService.Delete(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
