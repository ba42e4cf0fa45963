package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rental_backend/internal/auth"
	"rental_backend/internal/cache"
	"rental_backend/internal/config"
	"rental_backend/internal/database"
	"rental_backend/internal/email"
	"rental_backend/internal/handlers"
	"rental_backend/internal/llm"
	"rental_backend/internal/logger"
	"rental_backend/internal/middleware"
	"rental_backend/internal/repositories"
	"rental_backend/internal/routes"
	"rental_backend/internal/services"
	"rental_backend/internal/storage"
	"rental_backend/internal/validator"
	"rental_backend/internal/workers"
	"rental_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Infrastructure - внешние зависимости сервисов
type Infrastructure struct {
	Storage  storage.Storage
	Cache    cache.Cache
	Email    email.Provider
	LLM      llm.Client
	ReadPool *sqlx.DB
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env, cfg.Log.Level)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.Init(cfg.JWT.Secret, cfg.JWTTTL())
	apperrors.DebugErrors = cfg.IsDevelopment()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	infra, err := NewInfrastructure(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize infrastructure", "error", err)
	}
	defer infra.Close()

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB, infra)

	if err := seedFirstAdmin(gormDB, cfg, serviceContainer.UserService); err != nil {
		// без администратора сервер не запускаем
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	if cfg.Scheduler.Enabled {
		worker := workers.NewMaintenanceWorker(gormDB, serviceContainer.AppointmentService, serviceContainer.NotificationService, workers.MaintenanceConfig{
			AppointmentsSpec:   cfg.Scheduler.AppointmentsSpec,
			NotificationsSpec:  cfg.Scheduler.NotificationsSpec,
			NotificationMaxAge: time.Duration(cfg.Scheduler.NotificationMaxDays) * 24 * time.Hour,
		})
		if err := worker.Start(ctx); err != nil {
			logger.Fatal("Failed to start maintenance worker", "error", err)
		}
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// NewInfrastructure поднимает хранилище, кэш, почту, LLM и пул только для чтения
func NewInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:            cfg.Storage.Type,
		BasePath:        cfg.Storage.BasePath,
		BaseURL:         cfg.Storage.BaseURL,
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		AccessKey:       cfg.Storage.AccessKey,
		SecretKey:       cfg.Storage.SecretKey,
		Endpoint:        cfg.Storage.Endpoint,
		UseSSL:          cfg.Storage.UseSSL,
		PublicRead:      cfg.Storage.PublicRead,
		CredentialsFile: cfg.Storage.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	queryCache, err := cache.New(ctx, cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		// кэш необязателен
		logger.Warn("Redis unavailable, query cache disabled", "error", err)
		queryCache = cache.NoopCache{}
	}

	emailProvider := email.NewProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, email.NewTemplateManager())

	readPool, err := database.OpenReadPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Infrastructure{
		Storage:  storageInstance,
		Cache:    queryCache,
		Email:    emailProvider,
		LLM: llm.NewHTTPClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.Timeout) * time.Second,
		}),
		ReadPool: readPool,
	}, nil
}

func (i *Infrastructure) Close() {
	if i.Cache != nil {
		_ = i.Cache.Close()
	}
	if i.Email != nil {
		_ = i.Email.Close()
	}
	if i.ReadPool != nil {
		_ = i.ReadPool.Close()
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, infra *Infrastructure) (*gin.Engine, *services.ServiceContainer) {
	// 1. Сервисы
	serviceContainer := initializeServices(cfg, infra)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)
	if local, ok := infra.Storage.(*storage.LocalStorage); ok {
		ginRouter.Static(cfg.Storage.BaseURL, local.BasePath())
	}

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, infra *Infrastructure) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	locationRepo := repositories.NewLocationRepository()
	termRepo := repositories.NewTermRepository()
	postRepo := repositories.NewPostRepository()
	reviewRepo := repositories.NewReviewRepository()
	applicationRepo := repositories.NewLessorApplicationRepository()
	appointmentRepo := repositories.NewAppointmentRepository()
	notificationRepo := repositories.NewNotificationRepository()
	postSearchRepo := repositories.NewPostSearchRepository(infra.ReadPool)
	analyticsRepo := repositories.NewAnalyticsRepository()

	// --- Сервисы ---
	uploadService := services.NewUploadService(infra.Storage, services.UploadConfig{
		MaxFileSize:  cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
		ImageQuality: cfg.Upload.ImageQuality,
	})
	emailService := services.NewEmailService(infra.Email)
	notificationService := services.NewNotificationService(notificationRepo)

	return &services.ServiceContainer{
		AuthService:     services.NewAuthService(userRepo),
		UserService:     services.NewUserService(userRepo, uploadService),
		LocationService: services.NewLocationService(locationRepo, infra.Cache, cfg.CacheTTL()),
		TermService:     services.NewTermService(termRepo, infra.Cache, cfg.CacheTTL()),
		PostService: services.NewPostService(postRepo, termRepo, locationRepo, reviewRepo, uploadService, infra.Cache, services.PostServiceConfig{
			MaxImages: cfg.Upload.MaxPostImages,
			CacheTTL:  cfg.CacheTTL(),
		}),
		ReviewService:            services.NewReviewService(reviewRepo, postRepo, notificationService),
		LessorApplicationService: services.NewLessorApplicationService(applicationRepo, userRepo, notificationService, emailService, cfg.ResubmitCooldown()),
		AppointmentService:       services.NewAppointmentService(appointmentRepo, postRepo, notificationService),
		NotificationService:      notificationService,
		ChatbotService:           services.NewChatbotService(infra.LLM, postSearchRepo),
		AnalyticsService:         services.NewAnalyticsService(analyticsRepo),
		UploadService:            uploadService,
		EmailService:             emailService,
	}
}

func initializeHandlers(s *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:              handlers.NewAuthHandler(baseHandler, s.AuthService),
		UserHandler:              handlers.NewUserHandler(baseHandler, s.UserService),
		LocationHandler:          handlers.NewLocationHandler(baseHandler, s.LocationService),
		TermHandler:              handlers.NewTermHandler(baseHandler, s.TermService),
		PostHandler:              handlers.NewPostHandler(baseHandler, s.PostService),
		ReviewHandler:            handlers.NewReviewHandler(baseHandler, s.ReviewService),
		LessorApplicationHandler: handlers.NewLessorApplicationHandler(baseHandler, s.LessorApplicationService),
		AppointmentHandler:       handlers.NewAppointmentHandler(baseHandler, s.AppointmentService),
		NotificationHandler:      handlers.NewNotificationHandler(baseHandler, s.NotificationService),
		ChatbotHandler:           handlers.NewChatbotHandler(baseHandler, s.ChatbotService),
		AnalyticsHandler:         handlers.NewAnalyticsHandler(baseHandler, s.AnalyticsService),
		HealthHandler:            handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	router.MaxMultipartMemory = 32 << 20
	return router
}

// seedFirstAdmin создает администратора из FIRST_ADMIN_EMAIL / FIRST_ADMIN_PASSWORD
func seedFirstAdmin(db *gorm.DB, cfg *config.Config, userService services.UserService) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	created, err := userService.EnsureAdmin(db, cfg.FirstAdminEmail, cfg.FirstAdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("✅ Successfully created first admin user", "email", cfg.FirstAdminEmail)
	} else {
		logger.Info("Admin user already exists. Skipping creation.", "email", cfg.FirstAdminEmail)
	}
	return nil
}
