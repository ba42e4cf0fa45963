package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler              *AuthHandler
	UserHandler              *UserHandler
	LocationHandler          *LocationHandler
	TermHandler              *TermHandler
	PostHandler              *PostHandler
	ReviewHandler            *ReviewHandler
	LessorApplicationHandler *LessorApplicationHandler
	AppointmentHandler       *AppointmentHandler
	NotificationHandler      *NotificationHandler
	ChatbotHandler           *ChatbotHandler
	AnalyticsHandler         *AnalyticsHandler
	HealthHandler            *HealthHandler
}
