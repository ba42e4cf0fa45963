package repositories

import (
	"errors"
	"time"

	"rental_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrLessorApplicationNotFound = errors.New("lessor application not found")
	// ErrLessorApplicationNotPending - заявка уже рассмотрена (или удалена) к моменту решения
	ErrLessorApplicationNotPending = errors.New("lessor application is not pending")
)

type LessorApplicationRepository interface {
	Create(db *gorm.DB, app *models.LessorApplication) error
	FindByID(db *gorm.DB, id string) (*models.LessorApplication, error)
	FindPendingByUser(db *gorm.DB, userID string) (*models.LessorApplication, error)
	FindLatestByUser(db *gorm.DB, userID string) (*models.LessorApplication, error)
	List(db *gorm.DB, filter LessorApplicationFilter) ([]models.LessorApplication, int64, error)
	// UpdateDecision переводит заявку из pending в итоговый статус одним условным UPDATE
	UpdateDecision(db *gorm.DB, id string, decision LessorDecision) error
	Delete(db *gorm.DB, id string) error
}

type LessorApplicationFilter struct {
	Status   models.LessorApplicationStatus
	Page     int
	PageSize int
}

type LessorDecision struct {
	Status          models.LessorApplicationStatus
	RejectionReason string
	ReviewedBy      string
	ReviewedAt      time.Time
}

type LessorApplicationRepositoryImpl struct{}

func NewLessorApplicationRepository() LessorApplicationRepository {
	return &LessorApplicationRepositoryImpl{}
}

func (r *LessorApplicationRepositoryImpl) Create(db *gorm.DB, app *models.LessorApplication) error {
	return db.Omit("User").Create(app).Error
}

func (r *LessorApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.LessorApplication, error) {
	var app models.LessorApplication
	if err := db.Preload("User").Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessorApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *LessorApplicationRepositoryImpl) FindPendingByUser(db *gorm.DB, userID string) (*models.LessorApplication, error) {
	var app models.LessorApplication
	err := db.Where("user_id = ? AND status = ?", userID, models.LessorApplicationPending).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessorApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *LessorApplicationRepositoryImpl) FindLatestByUser(db *gorm.DB, userID string) (*models.LessorApplication, error) {
	var app models.LessorApplication
	err := db.Where("user_id = ?", userID).Order("created_at DESC").First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessorApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *LessorApplicationRepositoryImpl) List(db *gorm.DB, filter LessorApplicationFilter) ([]models.LessorApplication, int64, error) {
	var apps []models.LessorApplication
	var total int64

	query := db.Model(&models.LessorApplication{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC").
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&apps).Error
	return apps, total, err
}

func (r *LessorApplicationRepositoryImpl) UpdateDecision(db *gorm.DB, id string, decision LessorDecision) error {
	result := db.Model(&models.LessorApplication{}).
		Where("id = ? AND status = ?", id, models.LessorApplicationPending).
		Updates(map[string]interface{}{
			"status":           decision.Status,
			"rejection_reason": decision.RejectionReason,
			"reviewed_by":      decision.ReviewedBy,
			"reviewed_at":      decision.ReviewedAt,
			"updated_at":       db.NowFunc(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLessorApplicationNotPending
	}
	return nil
}

func (r *LessorApplicationRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.LessorApplication{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLessorApplicationNotFound
	}
	return nil
}
