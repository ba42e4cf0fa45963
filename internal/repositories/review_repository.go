package repositories

import (
	"errors"

	"rental_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this post")
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindTopLevelByPostAndUser(db *gorm.DB, postID, userID string) (*models.Review, error)
	// FindAllByPost возвращает все узлы дерева одним запросом
	FindAllByPost(db *gorm.DB, postID string, includeHidden bool) ([]models.Review, error)
	FindVisibleTopLevel(db *gorm.DB, postID string, rating, page, pageSize int) ([]models.Review, int64, error)
	Update(db *gorm.DB, review *models.Review) error
	SetHidden(db *gorm.DB, id string, hidden bool) error
	DeleteByIDs(db *gorm.DB, ids []string) (int64, error)
	FindWithCriteria(db *gorm.DB, criteria ReviewCriteria) ([]models.Review, int64, error)

	// RatingCounts - число видимых отзывов верхнего уровня по каждой оценке
	RatingCounts(db *gorm.DB, postID string) (map[int]int64, error)
}

// ReviewCriteria - фильтр для админского списка (скрытые включены)
type ReviewCriteria struct {
	PostID   string
	UserID   string
	IsHidden *bool
	Rating   int
	TopLevel bool
	Page     int
	PageSize int
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	if err := db.Omit("User", "Post").Create(review).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrReviewAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	if err := db.Preload("User").Where("id = ?", id).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindTopLevelByPostAndUser(db *gorm.DB, postID, userID string) (*models.Review, error) {
	var review models.Review
	err := db.Where("post_id = ? AND user_id = ? AND parent_id IS NULL", postID, userID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindAllByPost(db *gorm.DB, postID string, includeHidden bool) ([]models.Review, error) {
	var reviews []models.Review
	query := db.Preload("User").Where("post_id = ?", postID)
	if !includeHidden {
		query = query.Where("is_hidden = ?", false)
	}
	err := query.Order("created_at ASC").Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) FindVisibleTopLevel(db *gorm.DB, postID string, rating, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := db.Model(&models.Review{}).
		Where("post_id = ? AND parent_id IS NULL AND is_hidden = ?", postID, false)
	if rating > 0 {
		query = query.Where("rating = ?", rating)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC").
		Scopes(paginate(page, pageSize)).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) Update(db *gorm.DB, review *models.Review) error {
	result := db.Model(&models.Review{}).Where("id = ?", review.ID).Updates(map[string]interface{}{
		"content":    review.Content,
		"rating":     review.Rating,
		"updated_at": db.NowFunc(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) SetHidden(db *gorm.DB, id string, hidden bool) error {
	result := db.Model(&models.Review{}).Where("id = ?", id).Update("is_hidden", hidden)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) DeleteByIDs(db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Where("id IN ?", ids).Delete(&models.Review{})
	return result.RowsAffected, result.Error
}

func (r *ReviewRepositoryImpl) FindWithCriteria(db *gorm.DB, criteria ReviewCriteria) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := db.Model(&models.Review{})
	if criteria.PostID != "" {
		query = query.Where("post_id = ?", criteria.PostID)
	}
	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.IsHidden != nil {
		query = query.Where("is_hidden = ?", *criteria.IsHidden)
	}
	if criteria.Rating > 0 {
		query = query.Where("rating = ?", criteria.Rating)
	}
	if criteria.TopLevel {
		query = query.Where("parent_id IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC").
		Scopes(paginate(criteria.Page, criteria.PageSize)).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) RatingCounts(db *gorm.DB, postID string) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := db.Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("post_id = ? AND parent_id IS NULL AND is_hidden = ? AND rating IS NOT NULL", postID, false).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}
