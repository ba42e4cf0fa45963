package handlers

import (
	"net/http"

	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatbotHandler struct {
	*BaseHandler
	chatbotService services.ChatbotService
}

func NewChatbotHandler(base *BaseHandler, chatbotService services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{
		BaseHandler:    base,
		chatbotService: chatbotService,
	}
}

func (h *ChatbotHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chatbot/message", h.SendMessage)
}

// SendMessage godoc
// @Summary Сообщение ассистенту
// @Description Классифицирует запрос, при поиске подбирает до 5 опубликованных объявлений
// @Tags chatbot
// @Accept json
// @Produce json
// @Param request body dto.ChatbotMessageRequest true "Сообщение"
// @Success 200 {object} dto.ChatbotResponse
// @Failure 503 {object} apperrors.ErrorResponse "Ассистент недоступен"
// @Router /api/v1/chatbot/message [post]
func (h *ChatbotHandler) SendMessage(c *gin.Context) {
	var req dto.ChatbotMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.chatbotService.HandleMessage(c.Request.Context(), req.Message)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
