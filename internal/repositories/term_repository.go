package repositories

import (
	"errors"

	"rental_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTermNotFound    = errors.New("term not found")
	ErrTermExists      = errors.New("term slug already exists")
	ErrTermInUse       = errors.New("term is used by posts")
	ErrUnknownTermKind = errors.New("unknown term kind")
)

// TermRepository - категории, удобства и особенности окружения.
// Все три справочника имеют одинаковую структуру и различаются таблицей.
type TermRepository interface {
	List(db *gorm.DB, kind models.TermKind) ([]models.Term, error)
	FindByID(db *gorm.DB, kind models.TermKind, id uint) (*models.Term, error)
	Create(db *gorm.DB, kind models.TermKind, term *models.Term) error
	Update(db *gorm.DB, kind models.TermKind, term *models.Term) error
	Delete(db *gorm.DB, kind models.TermKind, id uint) error

	FindAmenities(db *gorm.DB, ids []uint) ([]models.Amenity, error)
	FindEnvironmentFeatures(db *gorm.DB, ids []uint) ([]models.EnvironmentFeature, error)
}

type TermRepositoryImpl struct{}

func NewTermRepository() TermRepository {
	return &TermRepositoryImpl{}
}

func (r *TermRepositoryImpl) table(db *gorm.DB, kind models.TermKind) (*gorm.DB, error) {
	table := kind.Table()
	if table == "" {
		return nil, ErrUnknownTermKind
	}
	return db.Table(table), nil
}

func (r *TermRepositoryImpl) List(db *gorm.DB, kind models.TermKind) ([]models.Term, error) {
	q, err := r.table(db, kind)
	if err != nil {
		return nil, err
	}
	var terms []models.Term
	err = q.Order("name ASC").Find(&terms).Error
	return terms, err
}

func (r *TermRepositoryImpl) FindByID(db *gorm.DB, kind models.TermKind, id uint) (*models.Term, error) {
	q, err := r.table(db, kind)
	if err != nil {
		return nil, err
	}
	var term models.Term
	if err := q.Where("id = ?", id).First(&term).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		return nil, err
	}
	return &term, nil
}

func (r *TermRepositoryImpl) Create(db *gorm.DB, kind models.TermKind, term *models.Term) error {
	q, err := r.table(db, kind)
	if err != nil {
		return err
	}
	if err := q.Create(term).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrTermExists
		}
		return err
	}
	return nil
}

func (r *TermRepositoryImpl) Update(db *gorm.DB, kind models.TermKind, term *models.Term) error {
	q, err := r.table(db, kind)
	if err != nil {
		return err
	}
	result := q.Where("id = ?", term.ID).Updates(map[string]interface{}{
		"name":       term.Name,
		"slug":       term.Slug,
		"icon":       term.Icon,
		"updated_at": db.NowFunc(),
	})
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrTermExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTermNotFound
	}
	return nil
}

// Delete снимает удобство/особенность со всех объявлений; категорию с объявлениями удалить нельзя
func (r *TermRepositoryImpl) Delete(db *gorm.DB, kind models.TermKind, id uint) error {
	switch kind {
	case models.TermKindCategory:
		var count int64
		if err := db.Model(&models.Post{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrTermInUse
		}
	case models.TermKindAmenity:
		if err := db.Exec("DELETE FROM post_amenities WHERE amenity_id = ?", id).Error; err != nil {
			return err
		}
	case models.TermKindEnvironment:
		if err := db.Exec("DELETE FROM post_environment_features WHERE environment_feature_id = ?", id).Error; err != nil {
			return err
		}
	}

	q, err := r.table(db, kind)
	if err != nil {
		return err
	}
	result := q.Where("id = ?", id).Delete(&models.Term{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTermNotFound
	}
	return nil
}

func (r *TermRepositoryImpl) FindAmenities(db *gorm.DB, ids []uint) ([]models.Amenity, error) {
	var items []models.Amenity
	if len(ids) == 0 {
		return items, nil
	}
	if err := db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) != len(uniqueUints(ids)) {
		return nil, ErrTermNotFound
	}
	return items, nil
}

func (r *TermRepositoryImpl) FindEnvironmentFeatures(db *gorm.DB, ids []uint) ([]models.EnvironmentFeature, error) {
	var items []models.EnvironmentFeature
	if len(ids) == 0 {
		return items, nil
	}
	if err := db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) != len(uniqueUints(ids)) {
		return nil, ErrTermNotFound
	}
	return items, nil
}

func uniqueUints(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
