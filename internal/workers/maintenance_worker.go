package workers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"rental_backend/internal/logger"
)

// AppointmentCompleter и NotificationCleaner - то, что нужно воркеру от сервисов
type AppointmentCompleter interface {
	CompletePast(ctx context.Context, db *gorm.DB) (int64, error)
}

type NotificationCleaner interface {
	CleanOldNotifications(ctx context.Context, db *gorm.DB, maxAge time.Duration) (int64, error)
}

type MaintenanceConfig struct {
	AppointmentsSpec   string
	NotificationsSpec  string
	NotificationMaxAge time.Duration
}

// MaintenanceWorker - периодические задачи по расписанию cron
type MaintenanceWorker struct {
	db            *gorm.DB
	appointments  AppointmentCompleter
	notifications NotificationCleaner
	config        MaintenanceConfig
	cron          *cron.Cron
}

func NewMaintenanceWorker(db *gorm.DB, appointments AppointmentCompleter, notifications NotificationCleaner, config MaintenanceConfig) *MaintenanceWorker {
	return &MaintenanceWorker{
		db:            db,
		appointments:  appointments,
		notifications: notifications,
		config:        config,
		cron:          cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
}

// Start регистрирует задачи и запускает планировщик. Остановка - по ctx.
func (w *MaintenanceWorker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.config.AppointmentsSpec, func() { w.CompleteAppointments(ctx) }); err != nil {
		return err
	}
	if _, err := w.cron.AddFunc(w.config.NotificationsSpec, func() { w.CleanNotifications(ctx) }); err != nil {
		return err
	}

	w.cron.Start()
	logger.Info("Maintenance worker started",
		"appointments_spec", w.config.AppointmentsSpec,
		"notifications_spec", w.config.NotificationsSpec,
	)

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		logger.Info("Maintenance worker stopped")
	}()
	return nil
}

// CompleteAppointments переводит прошедшие принятые просмотры в completed
func (w *MaintenanceWorker) CompleteAppointments(ctx context.Context) {
	affected, err := w.appointments.CompletePast(ctx, w.db)
	logger.WorkerLog("maintenance", "complete_appointments", affected, err)
}

// CleanNotifications удаляет старые прочитанные уведомления
func (w *MaintenanceWorker) CleanNotifications(ctx context.Context) {
	affected, err := w.notifications.CleanOldNotifications(ctx, w.db, w.config.NotificationMaxAge)
	logger.WorkerLog("maintenance", "clean_notifications", affected, err)
}
