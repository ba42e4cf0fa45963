package dto

import (
	"time"

	"rental_backend/internal/models"
)

type CreatePostRequest struct {
	CategoryID     uint    `json:"category_id" validate:"required"`
	Title          string  `json:"title" validate:"required,min=5,max=255"`
	Description    string  `json:"description" validate:"omitempty,max=10000"`
	Price          float64 `json:"price" validate:"gte=0"`
	Area           float64 `json:"area" validate:"gt=0"`
	Address        string  `json:"address" validate:"required,max=255"`
	ProvinceID     uint    `json:"province_id" validate:"required"`
	DistrictID     uint    `json:"district_id" validate:"required"`
	WardID         *uint   `json:"ward_id"`
	AmenityIDs     []uint  `json:"amenity_ids" validate:"omitempty,max=50"`
	EnvironmentIDs []uint  `json:"environment_ids" validate:"omitempty,max=50"`

	// Status - draft (по умолчанию) или published
	Status string `json:"status" validate:"omitempty,is-post-status"`
}

// UpdatePostRequest - частичное обновление, nil-поля не меняются
type UpdatePostRequest struct {
	CategoryID     *uint    `json:"category_id"`
	Title          *string  `json:"title" validate:"omitempty,min=5,max=255"`
	Description    *string  `json:"description" validate:"omitempty,max=10000"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	Area           *float64 `json:"area" validate:"omitempty,gt=0"`
	Address        *string  `json:"address" validate:"omitempty,max=255"`
	ProvinceID     *uint    `json:"province_id"`
	DistrictID     *uint    `json:"district_id"`
	WardID         *uint    `json:"ward_id"`
	AmenityIDs     *[]uint  `json:"amenity_ids"`
	EnvironmentIDs *[]uint  `json:"environment_ids"`
}

type UpdatePostStatusRequest struct {
	Status string `json:"status" validate:"required,is-post-status"`
}

// PostListQuery - фильтры публичного списка
type PostListQuery struct {
	Keyword        string   `form:"keyword" validate:"omitempty,max=100"`
	CategoryID     uint     `form:"category_id"`
	ProvinceID     uint     `form:"province_id"`
	DistrictID     uint     `form:"district_id"`
	WardID         uint     `form:"ward_id"`
	PriceMin       *float64 `form:"price_min" validate:"omitempty,gte=0"`
	PriceMax       *float64 `form:"price_max" validate:"omitempty,gte=0"`
	AreaMin        *float64 `form:"area_min" validate:"omitempty,gte=0"`
	AreaMax        *float64 `form:"area_max" validate:"omitempty,gte=0"`
	AmenityIDs     []uint   `form:"amenity_ids"`
	EnvironmentIDs []uint   `form:"environment_ids"`
	Sort           string   `form:"sort" validate:"omitempty,is-post-sort"`
	Status         string   `form:"status" validate:"omitempty,is-post-status"`
	Page           int      `form:"page" validate:"omitempty,min=1"`
	PageSize       int      `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type PostImageResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	SortOrder    int    `json:"sort_order"`
}

type PostResponse struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Price               float64             `json:"price"`
	Area                float64             `json:"area"`
	Address             string              `json:"address"`
	Status              models.PostStatus   `json:"status"`
	ViewCount           int                 `json:"view_count"`
	OwnerID             string              `json:"owner_id"`
	Owner               *UserSummary        `json:"owner,omitempty"`
	Category            *TermResponse       `json:"category,omitempty"`
	Province            *ProvinceResponse   `json:"province,omitempty"`
	District            *DistrictResponse   `json:"district,omitempty"`
	Ward                *WardResponse       `json:"ward,omitempty"`
	Images              []PostImageResponse `json:"images"`
	Amenities           []TermResponse      `json:"amenities,omitempty"`
	EnvironmentFeatures []TermResponse      `json:"environment_features,omitempty"`
	Rating              *RatingSummary      `json:"rating,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

func NewPostImageResponse(img *models.PostImage) PostImageResponse {
	return PostImageResponse{
		ID:           img.ID,
		URL:          img.URL,
		ThumbnailURL: img.ThumbnailURL,
		SortOrder:    img.SortOrder,
	}
}

// NewPostResponse собирает ответ из модели с теми связями, что были загружены
func NewPostResponse(p *models.Post) PostResponse {
	resp := PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Area:        p.Area,
		Address:     p.Address,
		Status:      p.Status,
		ViewCount:   p.ViewCount,
		OwnerID:     p.OwnerID,
		Owner:       NewUserSummary(&p.Owner),
		Category:    NewTermResponse(&p.Category.Term),
		Province:    NewProvinceResponse(&p.Province),
		District:    NewDistrictResponse(&p.District),
		Ward:        NewWardResponse(p.Ward),
		Images:      make([]PostImageResponse, 0, len(p.Images)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	for i := range p.Images {
		resp.Images = append(resp.Images, NewPostImageResponse(&p.Images[i]))
	}
	for i := range p.Amenities {
		resp.Amenities = append(resp.Amenities, *NewTermResponse(&p.Amenities[i].Term))
	}
	for i := range p.EnvironmentFeatures {
		resp.EnvironmentFeatures = append(resp.EnvironmentFeatures, *NewTermResponse(&p.EnvironmentFeatures[i].Term))
	}
	return resp
}
