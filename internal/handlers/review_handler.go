package handlers

import (
	"net/http"

	"rental_backend/internal/auth"
	"rental_backend/internal/middleware"
	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/posts/:id/reviews")
	public.Use(middleware.OptionalAuthMiddleware())
	{
		public.GET("", h.ListReviews)
		public.GET("/tree", h.GetTree)
		public.GET("/summary", h.GetSummary)
	}

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/posts/:id/reviews", h.CreateReview)
		protected.POST("/reviews/:id/replies", h.ReplyToReview)
		protected.POST("/replies/:id/replies", h.ReplyToReply)
		protected.PUT("/reviews/:id", h.UpdateReview)
		protected.DELETE("/reviews/:id", h.DeleteReview)
	}

	// Admin routes
	admin := r.Group("/admin/reviews")
	admin.Use(middleware.AuthMiddleware(), middleware.RequirePermission(auth.PermReviewsModerate))
	{
		admin.GET("", h.AdminListReviews)
		admin.PUT("/:id/hide", h.HideReview)
		admin.PUT("/:id/unhide", h.UnhideReview)
		admin.DELETE("/:id", h.DeleteReview)
	}
}

// --- Public handlers ---

// ListReviews godoc
// @Summary Отзывы объявления с ответами
// @Description Видимые отзывы верхнего уровня от новых к старым, у каждого дерево видимых ответов
// @Tags reviews
// @Produce json
// @Param id path string true "ID объявления"
// @Param rating query int false "Фильтр по оценке 1-5"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.ReviewListResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/posts/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var query dto.ReviewListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	ApplyPagination(&query.Page, &query.PageSize)

	reviews, err := h.reviewService.ListReviews(c.Request.Context(), h.GetDB(c), h.GetViewer(c), c.Param("id"), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetTree godoc
// @Summary Полное дерево отзывов объявления
// @Tags reviews
// @Produce json
// @Param id path string true "ID объявления"
// @Success 200 {object} dto.ReviewTreeResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/posts/{id}/reviews/tree [get]
func (h *ReviewHandler) GetTree(c *gin.Context) {
	tree, err := h.reviewService.GetTree(c.Request.Context(), h.GetDB(c), h.GetViewer(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// GetSummary godoc
// @Summary Средняя оценка и гистограмма
// @Tags reviews
// @Produce json
// @Param id path string true "ID объявления"
// @Success 200 {object} dto.RatingSummary
// @Router /api/v1/posts/{id}/reviews/summary [get]
func (h *ReviewHandler) GetSummary(c *gin.Context) {
	summary, err := h.reviewService.GetSummary(c.Request.Context(), h.GetDB(c), h.GetViewer(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// --- Authenticated handlers ---

// CreateReview godoc
// @Summary Оставить отзыв
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "ID объявления"
// @Param request body dto.CreateReviewRequest true "Оценка и текст"
// @Success 201 {object} dto.ReviewNode
// @Failure 403 {object} apperrors.ErrorResponse "Собственное объявление"
// @Failure 409 {object} apperrors.ErrorResponse "Отзыв уже есть"
// @Security BearerAuth
// @Router /api/v1/posts/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ReplyToReview godoc
// @Summary Ответить на отзыв
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "ID отзыва верхнего уровня"
// @Param request body dto.ReplyRequest true "Текст"
// @Success 201 {object} dto.ReviewNode
// @Failure 422 {object} apperrors.ErrorResponse "Цель не отзыв или скрыта"
// @Security BearerAuth
// @Router /api/v1/reviews/{id}/replies [post]
func (h *ReviewHandler) ReplyToReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ReplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	reply, err := h.reviewService.ReplyToReview(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

// ReplyToReply godoc
// @Summary Ответить на ответ
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "ID ответа"
// @Param request body dto.ReplyRequest true "Текст"
// @Success 201 {object} dto.ReviewNode
// @Failure 422 {object} apperrors.ErrorResponse "Цель не ответ или скрыта"
// @Security BearerAuth
// @Router /api/v1/replies/{id}/replies [post]
func (h *ReviewHandler) ReplyToReply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ReplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	reply, err := h.reviewService.ReplyToReply(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview - автор удаляет свой узел, модератор любой; поддерево удаляется вместе с ним
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	viewer, ok := h.GetAuthorizedViewer(c)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), h.GetDB(c), viewer, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Admin handlers ---

func (h *ReviewHandler) AdminListReviews(c *gin.Context) {
	var query dto.AdminReviewQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	ApplyPagination(&query.Page, &query.PageSize)

	reviews, err := h.reviewService.AdminListReviews(c.Request.Context(), h.GetDB(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) HideReview(c *gin.Context) {
	h.setHidden(c, true)
}

func (h *ReviewHandler) UnhideReview(c *gin.Context) {
	h.setHidden(c, false)
}

func (h *ReviewHandler) setHidden(c *gin.Context, hidden bool) {
	if err := h.reviewService.SetHidden(c.Request.Context(), h.GetDB(c), c.Param("id"), hidden); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "Review is visible"
	if hidden {
		message = "Review hidden"
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}
