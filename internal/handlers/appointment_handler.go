package handlers

import (
	"net/http"

	"rental_backend/internal/middleware"
	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	*BaseHandler
	appointmentService services.AppointmentService
}

func NewAppointmentHandler(base *BaseHandler, appointmentService services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		BaseHandler:        base,
		appointmentService: appointmentService,
	}
}

func (h *AppointmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	appointments.Use(middleware.AuthMiddleware())
	{
		appointments.POST("", h.Create)
		appointments.GET("/mine", h.ListMine)
		appointments.GET("/incoming", h.ListIncoming)
		appointments.GET("/:id", h.Get)
		appointments.PUT("/:id/accept", h.Accept)
		appointments.PUT("/:id/decline", h.Decline)
		appointments.PUT("/:id/cancel", h.Cancel)
	}
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.AppointmentQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	ApplyPagination(&query.Page, &query.PageSize)

	list, err := h.appointmentService.ListMine(c.Request.Context(), h.GetDB(c), userID, query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AppointmentHandler) ListIncoming(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.AppointmentQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	ApplyPagination(&query.Page, &query.PageSize)

	list, err := h.appointmentService.ListIncoming(c.Request.Context(), h.GetDB(c), userID, query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	viewer, ok := h.GetAuthorizedViewer(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Get(c.Request.Context(), h.GetDB(c), viewer, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (h *AppointmentHandler) Accept(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Accept(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (h *AppointmentHandler) Decline(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Decline(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	// тело необязательно
	var req dto.CancelAppointmentRequest
	if c.Request.ContentLength > 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Cancel(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}
