package handlers

import (
	"context"
	"net/http"

	"rental_backend/internal/auth"
	"rental_backend/internal/middleware"
	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LocationHandler struct {
	*BaseHandler
	locationService services.LocationService
}

func NewLocationHandler(base *BaseHandler, locationService services.LocationService) *LocationHandler {
	return &LocationHandler{
		BaseHandler:     base,
		locationService: locationService,
	}
}

func (h *LocationHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/locations")
	{
		public.GET("/provinces", h.ListProvinces)
		public.GET("/provinces/:id/districts", h.ListDistricts)
		public.GET("/districts/:id/wards", h.ListWards)
	}

	admin := r.Group("/admin/locations")
	admin.Use(middleware.AuthMiddleware(), middleware.RequirePermission(auth.PermDictionaryManage))
	{
		admin.POST("/provinces", h.CreateProvince)
		admin.DELETE("/provinces/:id", h.DeleteProvince)
		admin.POST("/districts", h.CreateDistrict)
		admin.DELETE("/districts/:id", h.DeleteDistrict)
		admin.POST("/wards", h.CreateWard)
		admin.DELETE("/wards/:id", h.DeleteWard)
	}
}

func (h *LocationHandler) ListProvinces(c *gin.Context) {
	provinces, err := h.locationService.ListProvinces(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, provinces)
}

func (h *LocationHandler) ListDistricts(c *gin.Context) {
	provinceID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	districts, err := h.locationService.ListDistricts(c.Request.Context(), h.GetDB(c), provinceID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, districts)
}

func (h *LocationHandler) ListWards(c *gin.Context) {
	districtID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	wards, err := h.locationService.ListWards(c.Request.Context(), h.GetDB(c), districtID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, wards)
}

// --- Admin ---

func (h *LocationHandler) CreateProvince(c *gin.Context) {
	var req dto.CreateProvinceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	province, err := h.locationService.CreateProvince(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, province)
}

func (h *LocationHandler) CreateDistrict(c *gin.Context) {
	var req dto.CreateDistrictRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	district, err := h.locationService.CreateDistrict(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, district)
}

func (h *LocationHandler) CreateWard(c *gin.Context) {
	var req dto.CreateWardRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	ward, err := h.locationService.CreateWard(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ward)
}

func (h *LocationHandler) DeleteProvince(c *gin.Context) {
	h.deleteByID(c, h.locationService.DeleteProvince)
}

func (h *LocationHandler) DeleteDistrict(c *gin.Context) {
	h.deleteByID(c, h.locationService.DeleteDistrict)
}

func (h *LocationHandler) DeleteWard(c *gin.Context) {
	h.deleteByID(c, h.locationService.DeleteWard)
}

func (h *LocationHandler) deleteByID(c *gin.Context, del func(ctx context.Context, db *gorm.DB, id uint) error) {
	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := del(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
