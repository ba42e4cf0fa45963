package repositories

import (
	"errors"

	"rental_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostImageNotFound = errors.New("post image not found")
)

// Допустимые сортировки -> ORDER BY
var postSortOrders = map[string]string{
	"newest":     "posts.created_at DESC",
	"price_asc":  "posts.price ASC, posts.created_at DESC",
	"price_desc": "posts.price DESC, posts.created_at DESC",
	"area_desc":  "posts.area DESC, posts.created_at DESC",
}

type PostFilter struct {
	Keyword        string
	CategoryID     uint
	ProvinceID     uint
	DistrictID     uint
	WardID         uint
	PriceMin       *float64
	PriceMax       *float64
	AreaMin        *float64
	AreaMax        *float64
	AmenityIDs     []uint
	EnvironmentIDs []uint
	Status         models.PostStatus // пусто - любой статус
	OwnerID        string
	Sort           string
	Page           int
	PageSize       int
}

type PostRepository interface {
	Create(db *gorm.DB, post *models.Post) error
	FindByID(db *gorm.DB, id string) (*models.Post, error)
	FindByIDWithDetails(db *gorm.DB, id string) (*models.Post, error)
	Update(db *gorm.DB, post *models.Post) error
	ReplaceAmenities(db *gorm.DB, post *models.Post, amenities []models.Amenity) error
	ReplaceEnvironmentFeatures(db *gorm.DB, post *models.Post, features []models.EnvironmentFeature) error
	UpdateStatus(db *gorm.DB, id string, status models.PostStatus) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, filter PostFilter) ([]models.Post, int64, error)
	IncrementViewCount(db *gorm.DB, id string) error

	AddImage(db *gorm.DB, image *models.PostImage) error
	CountImages(db *gorm.DB, postID string) (int64, error)
	FindImage(db *gorm.DB, postID, imageID string) (*models.PostImage, error)
	ListImages(db *gorm.DB, postID string) ([]models.PostImage, error)
	DeleteImage(db *gorm.DB, imageID string) error
}

type PostRepositoryImpl struct{}

func NewPostRepository() PostRepository {
	return &PostRepositoryImpl{}
}

func (r *PostRepositoryImpl) Create(db *gorm.DB, post *models.Post) error {
	return db.Omit("Owner", "Category", "Province", "District", "Ward").Create(post).Error
}

func (r *PostRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Post, error) {
	var post models.Post
	if err := db.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) FindByIDWithDetails(db *gorm.DB, id string) (*models.Post, error) {
	var post models.Post
	err := db.Scopes(withPostDetails).Where("posts.id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func withPostDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Category").
		Preload("Province").
		Preload("District").
		Preload("Ward").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Amenities").
		Preload("EnvironmentFeatures")
}

func (r *PostRepositoryImpl) Update(db *gorm.DB, post *models.Post) error {
	result := db.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"category_id": post.CategoryID,
		"title":       post.Title,
		"description": post.Description,
		"price":       post.Price,
		"area":        post.Area,
		"address":     post.Address,
		"province_id": post.ProvinceID,
		"district_id": post.DistrictID,
		"ward_id":     post.WardID,
		"updated_at":  db.NowFunc(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepositoryImpl) ReplaceAmenities(db *gorm.DB, post *models.Post, amenities []models.Amenity) error {
	return db.Model(post).Association("Amenities").Replace(amenities)
}

func (r *PostRepositoryImpl) ReplaceEnvironmentFeatures(db *gorm.DB, post *models.Post, features []models.EnvironmentFeature) error {
	return db.Model(post).Association("EnvironmentFeatures").Replace(features)
}

func (r *PostRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.PostStatus) error {
	result := db.Model(&models.Post{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete удаляет объявление вместе с фото и связями; отзывы и просмотры удаляет FK CASCADE
func (r *PostRepositoryImpl) Delete(db *gorm.DB, id string) error {
	post := &models.Post{BaseModel: models.BaseModel{ID: id}}
	result := db.Select("Images", "Amenities", "EnvironmentFeatures").Delete(post)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepositoryImpl) List(db *gorm.DB, filter PostFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := db.Model(&models.Post{})

	if filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}
	if filter.OwnerID != "" {
		query = query.Where("posts.owner_id = ?", filter.OwnerID)
	}
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		query = query.Where("(LOWER(posts.title) LIKE ? OR LOWER(posts.description) LIKE ? OR LOWER(posts.address) LIKE ?)",
			pattern, pattern, pattern)
	}
	if filter.CategoryID != 0 {
		query = query.Where("posts.category_id = ?", filter.CategoryID)
	}
	if filter.ProvinceID != 0 {
		query = query.Where("posts.province_id = ?", filter.ProvinceID)
	}
	if filter.DistrictID != 0 {
		query = query.Where("posts.district_id = ?", filter.DistrictID)
	}
	if filter.WardID != 0 {
		query = query.Where("posts.ward_id = ?", filter.WardID)
	}
	if filter.PriceMin != nil {
		query = query.Where("posts.price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("posts.price <= ?", *filter.PriceMax)
	}
	if filter.AreaMin != nil {
		query = query.Where("posts.area >= ?", *filter.AreaMin)
	}
	if filter.AreaMax != nil {
		query = query.Where("posts.area <= ?", *filter.AreaMax)
	}
	// Объявление должно иметь все перечисленные удобства
	if ids := uniqueUints(filter.AmenityIDs); len(ids) > 0 {
		query = query.Where("posts.id IN (?)", db.Table("post_amenities").
			Select("post_id").
			Where("amenity_id IN ?", ids).
			Group("post_id").
			Having("COUNT(DISTINCT amenity_id) = ?", len(ids)))
	}
	if ids := uniqueUints(filter.EnvironmentIDs); len(ids) > 0 {
		query = query.Where("posts.id IN (?)", db.Table("post_environment_features").
			Select("post_id").
			Where("environment_feature_id IN ?", ids).
			Group("post_id").
			Having("COUNT(DISTINCT environment_feature_id) = ?", len(ids)))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := postSortOrders[filter.Sort]
	if !ok {
		order = postSortOrders["newest"]
	}

	err := query.
		Preload("Category").
		Preload("Province").
		Preload("District").
		Preload("Ward").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Order(order).
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostRepositoryImpl) IncrementViewCount(db *gorm.DB, id string) error {
	return db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *PostRepositoryImpl) AddImage(db *gorm.DB, image *models.PostImage) error {
	return db.Create(image).Error
}

func (r *PostRepositoryImpl) CountImages(db *gorm.DB, postID string) (int64, error) {
	var count int64
	err := db.Model(&models.PostImage{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *PostRepositoryImpl) FindImage(db *gorm.DB, postID, imageID string) (*models.PostImage, error) {
	var image models.PostImage
	if err := db.Where("id = ? AND post_id = ?", imageID, postID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *PostRepositoryImpl) ListImages(db *gorm.DB, postID string) ([]models.PostImage, error) {
	var images []models.PostImage
	err := db.Where("post_id = ?", postID).Order("sort_order ASC").Find(&images).Error
	return images, err
}

func (r *PostRepositoryImpl) DeleteImage(db *gorm.DB, imageID string) error {
	result := db.Where("id = ?", imageID).Delete(&models.PostImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostImageNotFound
	}
	return nil
}
