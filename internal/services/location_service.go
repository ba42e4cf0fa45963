package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"rental_backend/internal/cache"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type LocationService interface {
	ListProvinces(ctx context.Context, db *gorm.DB) ([]dto.ProvinceResponse, error)
	ListDistricts(ctx context.Context, db *gorm.DB, provinceID uint) ([]dto.DistrictResponse, error)
	ListWards(ctx context.Context, db *gorm.DB, districtID uint) ([]dto.WardResponse, error)

	CreateProvince(ctx context.Context, db *gorm.DB, req *dto.CreateProvinceRequest) (*dto.ProvinceResponse, error)
	CreateDistrict(ctx context.Context, db *gorm.DB, req *dto.CreateDistrictRequest) (*dto.DistrictResponse, error)
	CreateWard(ctx context.Context, db *gorm.DB, req *dto.CreateWardRequest) (*dto.WardResponse, error)
	DeleteProvince(ctx context.Context, db *gorm.DB, id uint) error
	DeleteDistrict(ctx context.Context, db *gorm.DB, id uint) error
	DeleteWard(ctx context.Context, db *gorm.DB, id uint) error
}

type locationService struct {
	locationRepo repositories.LocationRepository
	cache        cache.Cache
	ttl          time.Duration
}

func NewLocationService(locationRepo repositories.LocationRepository, c cache.Cache, ttl time.Duration) LocationService {
	return &locationService{
		locationRepo: locationRepo,
		cache:        c,
		ttl:          ttl,
	}
}

func (s *locationService) ListProvinces(ctx context.Context, db *gorm.DB) ([]dto.ProvinceResponse, error) {
	return cachedQuery(ctx, s.cache, s.ttl, cache.NamespaceLocations, map[string]string{"level": "provinces"},
		func() ([]dto.ProvinceResponse, error) {
			provinces, err := s.locationRepo.ListProvinces(db)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			items := make([]dto.ProvinceResponse, 0, len(provinces))
			for i := range provinces {
				items = append(items, *dto.NewProvinceResponse(&provinces[i]))
			}
			return items, nil
		})
}

func (s *locationService) ListDistricts(ctx context.Context, db *gorm.DB, provinceID uint) ([]dto.DistrictResponse, error) {
	params := map[string]string{"level": "districts", "province_id": strconv.FormatUint(uint64(provinceID), 10)}
	return cachedQuery(ctx, s.cache, s.ttl, cache.NamespaceLocations, params,
		func() ([]dto.DistrictResponse, error) {
			districts, err := s.locationRepo.ListDistricts(db, provinceID)
			if err != nil {
				return nil, handleLocationError(err)
			}
			items := make([]dto.DistrictResponse, 0, len(districts))
			for i := range districts {
				items = append(items, *dto.NewDistrictResponse(&districts[i]))
			}
			return items, nil
		})
}

func (s *locationService) ListWards(ctx context.Context, db *gorm.DB, districtID uint) ([]dto.WardResponse, error) {
	params := map[string]string{"level": "wards", "district_id": strconv.FormatUint(uint64(districtID), 10)}
	return cachedQuery(ctx, s.cache, s.ttl, cache.NamespaceLocations, params,
		func() ([]dto.WardResponse, error) {
			wards, err := s.locationRepo.ListWards(db, districtID)
			if err != nil {
				return nil, handleLocationError(err)
			}
			items := make([]dto.WardResponse, 0, len(wards))
			for i := range wards {
				items = append(items, *dto.NewWardResponse(&wards[i]))
			}
			return items, nil
		})
}

func (s *locationService) CreateProvince(ctx context.Context, db *gorm.DB, req *dto.CreateProvinceRequest) (*dto.ProvinceResponse, error) {
	province := &models.Province{Name: strings.TrimSpace(req.Name), Code: strings.TrimSpace(req.Code)}
	if err := s.locationRepo.CreateProvince(db, province); err != nil {
		return nil, handleLocationError(err)
	}
	invalidate(ctx, s.cache, cache.NamespaceLocations)
	return dto.NewProvinceResponse(province), nil
}

func (s *locationService) CreateDistrict(ctx context.Context, db *gorm.DB, req *dto.CreateDistrictRequest) (*dto.DistrictResponse, error) {
	district := &models.District{
		ProvinceID: req.ProvinceID,
		Name:       strings.TrimSpace(req.Name),
		Code:       strings.TrimSpace(req.Code),
	}
	if err := s.locationRepo.CreateDistrict(db, district); err != nil {
		return nil, handleLocationError(err)
	}
	invalidate(ctx, s.cache, cache.NamespaceLocations)
	return dto.NewDistrictResponse(district), nil
}

func (s *locationService) CreateWard(ctx context.Context, db *gorm.DB, req *dto.CreateWardRequest) (*dto.WardResponse, error) {
	ward := &models.Ward{
		DistrictID: req.DistrictID,
		Name:       strings.TrimSpace(req.Name),
		Code:       strings.TrimSpace(req.Code),
	}
	if err := s.locationRepo.CreateWard(db, ward); err != nil {
		return nil, handleLocationError(err)
	}
	invalidate(ctx, s.cache, cache.NamespaceLocations)
	return dto.NewWardResponse(ward), nil
}

func (s *locationService) DeleteProvince(ctx context.Context, db *gorm.DB, id uint) error {
	return s.afterDelete(ctx, s.locationRepo.DeleteProvince(db, id))
}

func (s *locationService) DeleteDistrict(ctx context.Context, db *gorm.DB, id uint) error {
	return s.afterDelete(ctx, s.locationRepo.DeleteDistrict(db, id))
}

func (s *locationService) DeleteWard(ctx context.Context, db *gorm.DB, id uint) error {
	return s.afterDelete(ctx, s.locationRepo.DeleteWard(db, id))
}

func (s *locationService) afterDelete(ctx context.Context, err error) error {
	if err != nil {
		return handleLocationError(err)
	}
	invalidate(ctx, s.cache, cache.NamespaceLocations)
	return nil
}

func handleLocationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrLocationNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrLocationExists):
		return apperrors.ErrAlreadyExists(err)
	case errors.Is(err, repositories.ErrLocationInUse):
		return apperrors.ErrConflict(err, "location", "Location is referenced by posts")
	case errors.Is(err, repositories.ErrLocationMismatch):
		return apperrors.ValidationError(map[string]string{"location": "district must belong to province and ward to district"})
	}
	return apperrors.InternalError(err)
}
