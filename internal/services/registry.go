package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService              AuthService
	UserService              UserService
	LocationService          LocationService
	TermService              TermService
	PostService              PostService
	ReviewService            ReviewService
	LessorApplicationService LessorApplicationService
	AppointmentService       AppointmentService
	NotificationService      NotificationService
	ChatbotService           ChatbotService
	AnalyticsService         AnalyticsService
	UploadService            UploadService
	EmailService             *EmailService
}
