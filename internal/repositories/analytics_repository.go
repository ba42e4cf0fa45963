package repositories

import (
	"errors"
	"time"

	"rental_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUnsupportedGrouping = errors.New("unsupported grouping column")

// groupedColumns - по каким колонкам разрешена группировка
var groupedColumns = map[string]bool{
	"role":   true,
	"status": true,
}

type AnalyticsRepository interface {
	// CountGrouped - количество строк model, созданных в [from, to], по значениям column
	CountGrouped(db *gorm.DB, model interface{}, column string, from, to time.Time) (map[string]int64, error)
	CountCreated(db *gorm.DB, model interface{}, from, to time.Time) (int64, error)
	// RatingStats - средняя оценка и число видимых отзывов верхнего уровня по всей площадке
	RatingStats(db *gorm.DB) (float64, int64, error)
	TopCategories(db *gorm.DB, limit int) ([]CategoryCount, error)
}

type CategoryCount struct {
	CategoryID uint
	Name       string
	PostCount  int64
}

type AnalyticsRepositoryImpl struct{}

func NewAnalyticsRepository() AnalyticsRepository {
	return &AnalyticsRepositoryImpl{}
}

type groupRow struct {
	Label string
	Total int64
}

func (r *AnalyticsRepositoryImpl) CountGrouped(db *gorm.DB, model interface{}, column string, from, to time.Time) (map[string]int64, error) {
	if !groupedColumns[column] {
		return nil, ErrUnsupportedGrouping
	}

	var rows []groupRow
	err := db.Model(model).
		Select(column+" AS label, COUNT(*) AS total").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Label] = row.Total
	}
	return result, nil
}

func (r *AnalyticsRepositoryImpl) CountCreated(db *gorm.DB, model interface{}, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(model).Where("created_at BETWEEN ? AND ?", from, to).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) RatingStats(db *gorm.DB) (float64, int64, error) {
	var row struct {
		Average *float64
		Total   int64
	}
	err := db.Model(&models.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("parent_id IS NULL AND is_hidden = ?", false).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.Average == nil {
		return 0, row.Total, nil
	}
	return *row.Average, row.Total, nil
}

func (r *AnalyticsRepositoryImpl) TopCategories(db *gorm.DB, limit int) ([]CategoryCount, error) {
	if limit < 1 || limit > maxPageSize {
		limit = 10
	}

	var rows []CategoryCount
	err := db.Table("posts").
		Select("categories.id AS category_id, categories.name AS name, COUNT(posts.id) AS post_count").
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("posts.status = ?", models.PostStatusPublished).
		Group("categories.id, categories.name").
		Order("post_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
