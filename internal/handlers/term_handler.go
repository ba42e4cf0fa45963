package handlers

import (
	"net/http"

	"rental_backend/internal/auth"
	"rental_backend/internal/middleware"
	"rental_backend/internal/models"
	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// TermHandler обслуживает категории, удобства и особенности окружения.
// Вид справочника определяется маршрутом.
type TermHandler struct {
	*BaseHandler
	termService services.TermService
}

func NewTermHandler(base *BaseHandler, termService services.TermService) *TermHandler {
	return &TermHandler{
		BaseHandler: base,
		termService: termService,
	}
}

var termKinds = []models.TermKind{
	models.TermKindCategory,
	models.TermKindAmenity,
	models.TermKindEnvironment,
}

func (h *TermHandler) RegisterRoutes(r *gin.RouterGroup) {
	for _, kind := range termKinds {
		path := "/" + string(kind)
		r.GET(path, h.List(kind))

		admin := r.Group("/admin" + path)
		admin.Use(middleware.AuthMiddleware(), middleware.RequirePermission(auth.PermDictionaryManage))
		{
			admin.POST("", h.Create(kind))
			admin.PUT("/:id", h.Update(kind))
			admin.DELETE("/:id", h.Delete(kind))
		}
	}
}

func (h *TermHandler) List(kind models.TermKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		terms, err := h.termService.List(c.Request.Context(), h.GetDB(c), kind)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, terms)
	}
}

func (h *TermHandler) Create(kind models.TermKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TermRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}

		term, err := h.termService.Create(c.Request.Context(), h.GetDB(c), kind, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, term)
	}
}

func (h *TermHandler) Update(kind models.TermKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ParseParamUint(c, "id")
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		var req dto.TermRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}

		term, err := h.termService.Update(c.Request.Context(), h.GetDB(c), kind, id, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, term)
	}
}

func (h *TermHandler) Delete(kind models.TermKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ParseParamUint(c, "id")
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		if err := h.termService.Delete(c.Request.Context(), h.GetDB(c), kind, id); err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
