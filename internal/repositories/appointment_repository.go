package repositories

import (
	"errors"
	"time"

	"rental_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrAppointmentStatusChanged - статус изменился между чтением и записью
	ErrAppointmentStatusChanged = errors.New("appointment status changed")
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *models.Appointment) error
	FindByID(db *gorm.DB, id string) (*models.Appointment, error)
	ListByRenter(db *gorm.DB, renterID string, filter AppointmentFilter) ([]models.Appointment, int64, error)
	ListByOwner(db *gorm.DB, ownerID string, filter AppointmentFilter) ([]models.Appointment, int64, error)
	// UpdateStatus меняет статус, только если текущий статус равен from
	UpdateStatus(db *gorm.DB, id string, from, to models.AppointmentStatus, reason string) error
	// CompletePast закрывает принятые просмотры, время которых прошло
	CompletePast(db *gorm.DB, now time.Time) (int64, error)
}

type AppointmentFilter struct {
	Status   models.AppointmentStatus
	Page     int
	PageSize int
}

type AppointmentRepositoryImpl struct{}

func NewAppointmentRepository() AppointmentRepository {
	return &AppointmentRepositoryImpl{}
}

func (r *AppointmentRepositoryImpl) Create(db *gorm.DB, appointment *models.Appointment) error {
	return db.Omit("Post", "Renter", "Owner").Create(appointment).Error
}

func (r *AppointmentRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := db.Preload("Post").Preload("Renter").Preload("Owner").
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentRepositoryImpl) ListByRenter(db *gorm.DB, renterID string, filter AppointmentFilter) ([]models.Appointment, int64, error) {
	return r.list(db.Where("renter_id = ?", renterID), filter)
}

func (r *AppointmentRepositoryImpl) ListByOwner(db *gorm.DB, ownerID string, filter AppointmentFilter) ([]models.Appointment, int64, error) {
	return r.list(db.Where("owner_id = ?", ownerID), filter)
}

func (r *AppointmentRepositoryImpl) list(query *gorm.DB, filter AppointmentFilter) ([]models.Appointment, int64, error) {
	var appointments []models.Appointment
	var total int64

	query = query.Model(&models.Appointment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Post").Preload("Renter").Preload("Owner").
		Order("appointment_time ASC").
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&appointments).Error
	return appointments, total, err
}

func (r *AppointmentRepositoryImpl) UpdateStatus(db *gorm.DB, id string, from, to models.AppointmentStatus, reason string) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": db.NowFunc(),
	}
	if reason != "" {
		updates["cancel_reason"] = reason
	}

	result := db.Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentStatusChanged
	}
	return nil
}

func (r *AppointmentRepositoryImpl) CompletePast(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Appointment{}).
		Where("status = ? AND appointment_time < ?", models.AppointmentAccepted, now).
		Updates(map[string]interface{}{
			"status":     models.AppointmentCompleted,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
