package handlers

import (
	"net/http"

	"rental_backend/internal/auth"
	"rental_backend/internal/middleware"
	"rental_backend/internal/models"
	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// maxImagesPerRequest - сколько файлов принимается за один запрос
const maxImagesPerRequest = 10

type PostHandler struct {
	*BaseHandler
	postService services.PostService
}

func NewPostHandler(base *BaseHandler, postService services.PostService) *PostHandler {
	return &PostHandler{
		BaseHandler: base,
		postService: postService,
	}
}

func (h *PostHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/posts")
	{
		public.GET("", h.ListPosts)
		public.GET("/:id", middleware.OptionalAuthMiddleware(), h.GetPost)
	}

	owner := r.Group("/posts")
	owner.Use(middleware.AuthMiddleware(), middleware.RequirePermission(auth.PermPostsWrite))
	{
		owner.GET("/mine", h.ListMyPosts)
		owner.POST("", h.CreatePost)
		owner.PUT("/:id", h.UpdatePost)
		owner.PUT("/:id/status", h.UpdatePostStatus)
		owner.DELETE("/:id", h.DeletePost)
		owner.POST("/:id/images", h.AddImages)
		owner.DELETE("/:id/images/:imageId", h.DeleteImage)
	}

	admin := r.Group("/admin/posts")
	admin.Use(middleware.AuthMiddleware(), middleware.RequirePermission(auth.PermPostsModerate))
	{
		admin.GET("", h.AdminListPosts)
	}
}

// ListPosts godoc
// @Summary Каталог опубликованных объявлений
// @Tags posts
// @Produce json
// @Param keyword query string false "Поиск по заголовку, описанию и адресу"
// @Param category_id query int false "Категория"
// @Param province_id query int false "Провинция"
// @Param district_id query int false "Район"
// @Param ward_id query int false "Квартал"
// @Param price_min query number false "Цена от"
// @Param price_max query number false "Цена до"
// @Param area_min query number false "Площадь от"
// @Param area_max query number false "Площадь до"
// @Param amenity_ids query []int false "Удобства (все должны быть)"
// @Param environment_ids query []int false "Окружение (все должны быть)"
// @Param sort query string false "newest | price_asc | price_desc | area_desc"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.PostListResponse
// @Router /api/v1/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	var query dto.PostListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	ApplyPagination(&query.Page, &query.PageSize)

	posts, err := h.postService.ListPublished(c.Request.Context(), h.GetDB(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Объявление с фото, справочниками и рейтингом
// @Tags posts
// @Produce json
// @Param id path string true "ID объявления"
// @Success 200 {object} dto.PostResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), h.GetDB(c), h.GetViewer(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) ListMyPosts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.PostListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	ApplyPagination(&query.Page, &query.PageSize)

	posts, err := h.postService.ListByOwner(c.Request.Context(), h.GetDB(c), userID, query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// CreatePost godoc
// @Summary Создать объявление
// @Tags posts
// @Accept json
// @Produce json
// @Param request body dto.CreatePostRequest true "Объявление"
// @Success 201 {object} dto.PostResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	viewer, ok := h.GetAuthorizedViewer(c)
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), h.GetDB(c), viewer, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePostStatus(c *gin.Context) {
	viewer, ok := h.GetAuthorizedViewer(c)
	if !ok {
		return
	}

	var req dto.UpdatePostStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.postService.UpdatePostStatus(c.Request.Context(), h.GetDB(c), viewer, c.Param("id"), models.PostStatus(req.Status)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Post status updated"})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	viewer, ok := h.GetAuthorizedViewer(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), h.GetDB(c), viewer, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddImages godoc
// @Summary Загрузить фото объявления
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID объявления"
// @Param files formData file true "До 10 изображений"
// @Success 201 {array} dto.PostImageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/posts/{id}/images [post]
func (h *PostHandler) AddImages(c *gin.Context) {
	viewer, ok := h.GetAuthorizedViewer(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Multipart form is required"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("At least one file is required"))
		return
	}
	if len(files) > maxImagesPerRequest {
		apperrors.HandleError(c, apperrors.ErrTooManyImages)
		return
	}

	images, err := h.postService.AddImages(c.Request.Context(), h.GetDB(c), viewer, c.Param("id"), files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, images)
}

func (h *PostHandler) DeleteImage(c *gin.Context) {
	viewer, ok := h.GetAuthorizedViewer(c)
	if !ok {
		return
	}

	if err := h.postService.DeleteImage(c.Request.Context(), h.GetDB(c), viewer, c.Param("id"), c.Param("imageId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Admin ---

func (h *PostHandler) AdminListPosts(c *gin.Context) {
	var query dto.PostListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	ApplyPagination(&query.Page, &query.PageSize)

	posts, err := h.postService.ListAll(c.Request.Context(), h.GetDB(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}
