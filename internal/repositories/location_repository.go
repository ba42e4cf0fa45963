package repositories

import (
	"errors"

	"rental_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationMismatch = errors.New("location hierarchy mismatch")
	ErrLocationExists   = errors.New("location code already exists")
	ErrLocationInUse    = errors.New("location is referenced by posts")
)

type LocationRepository interface {
	ListProvinces(db *gorm.DB) ([]models.Province, error)
	ListDistricts(db *gorm.DB, provinceID uint) ([]models.District, error)
	ListWards(db *gorm.DB, districtID uint) ([]models.Ward, error)

	CreateProvince(db *gorm.DB, p *models.Province) error
	CreateDistrict(db *gorm.DB, d *models.District) error
	CreateWard(db *gorm.DB, w *models.Ward) error

	DeleteProvince(db *gorm.DB, id uint) error
	DeleteDistrict(db *gorm.DB, id uint) error
	DeleteWard(db *gorm.DB, id uint) error

	// ValidateHierarchy проверяет, что район принадлежит провинции, а квартал - району
	ValidateHierarchy(db *gorm.DB, provinceID, districtID uint, wardID *uint) error
}

type LocationRepositoryImpl struct{}

func NewLocationRepository() LocationRepository {
	return &LocationRepositoryImpl{}
}

func (r *LocationRepositoryImpl) ListProvinces(db *gorm.DB) ([]models.Province, error) {
	var provinces []models.Province
	err := db.Order("name ASC").Find(&provinces).Error
	return provinces, err
}

func (r *LocationRepositoryImpl) ListDistricts(db *gorm.DB, provinceID uint) ([]models.District, error) {
	if err := r.exists(db, &models.Province{}, provinceID); err != nil {
		return nil, err
	}
	var districts []models.District
	err := db.Where("province_id = ?", provinceID).Order("name ASC").Find(&districts).Error
	return districts, err
}

func (r *LocationRepositoryImpl) ListWards(db *gorm.DB, districtID uint) ([]models.Ward, error) {
	if err := r.exists(db, &models.District{}, districtID); err != nil {
		return nil, err
	}
	var wards []models.Ward
	err := db.Where("district_id = ?", districtID).Order("name ASC").Find(&wards).Error
	return wards, err
}

func (r *LocationRepositoryImpl) CreateProvince(db *gorm.DB, p *models.Province) error {
	return mapLocationWriteErr(db.Create(p).Error)
}

func (r *LocationRepositoryImpl) CreateDistrict(db *gorm.DB, d *models.District) error {
	if err := r.exists(db, &models.Province{}, d.ProvinceID); err != nil {
		return err
	}
	return mapLocationWriteErr(db.Create(d).Error)
}

func (r *LocationRepositoryImpl) CreateWard(db *gorm.DB, w *models.Ward) error {
	if err := r.exists(db, &models.District{}, w.DistrictID); err != nil {
		return err
	}
	return mapLocationWriteErr(db.Create(w).Error)
}

func (r *LocationRepositoryImpl) DeleteProvince(db *gorm.DB, id uint) error {
	return r.delete(db, &models.Province{}, id)
}

func (r *LocationRepositoryImpl) DeleteDistrict(db *gorm.DB, id uint) error {
	return r.delete(db, &models.District{}, id)
}

func (r *LocationRepositoryImpl) DeleteWard(db *gorm.DB, id uint) error {
	return r.delete(db, &models.Ward{}, id)
}

func (r *LocationRepositoryImpl) ValidateHierarchy(db *gorm.DB, provinceID, districtID uint, wardID *uint) error {
	var count int64
	if err := db.Model(&models.District{}).
		Where("id = ? AND province_id = ?", districtID, provinceID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrLocationMismatch
	}

	if wardID == nil {
		return nil
	}
	if err := db.Model(&models.Ward{}).
		Where("id = ? AND district_id = ?", *wardID, districtID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrLocationMismatch
	}
	return nil
}

func (r *LocationRepositoryImpl) exists(db *gorm.DB, model interface{}, id uint) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func (r *LocationRepositoryImpl) delete(db *gorm.DB, model interface{}, id uint) error {
	result := db.Where("id = ?", id).Delete(model)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return ErrLocationInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func mapLocationWriteErr(err error) error {
	if isDuplicateKey(err) {
		return ErrLocationExists
	}
	return err
}
