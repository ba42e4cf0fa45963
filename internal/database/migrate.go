package database

import (
	"fmt"

	"gorm.io/gorm"

	"rental_backend/internal/logger"
	"rental_backend/internal/models"
)

// AllModels - порядок важен: справочники раньше объявлений, объявления раньше отзывов
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Province{},
		&models.District{},
		&models.Ward{},
		&models.Category{},
		&models.Amenity{},
		&models.EnvironmentFeature{},
		&models.Post{},
		&models.PostImage{},
		&models.Review{},
		&models.LessorApplication{},
		&models.Appointment{},
		&models.Notification{},
		&models.Payment{},
	}
}

// AutoMigrate выполняет миграцию всех моделей и создает индексы,
// которые GORM не умеет описывать тегами
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		// Один отзыв верхнего уровня на пару (объявление, пользователь)
		if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_reviews_post_user_top
			ON reviews (post_id, user_id) WHERE parent_id IS NULL`).Error; err != nil {
			return fmt.Errorf("failed to create reviews unique index: %w", err)
		}
	}

	logger.Info("✅ AutoMigrate успешно завершен.", "dialect", db.Dialector.Name())
	return nil
}
