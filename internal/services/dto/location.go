package dto

import "rental_backend/internal/models"

type ProvinceResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type DistrictResponse struct {
	ID         uint   `json:"id"`
	ProvinceID uint   `json:"province_id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
}

type WardResponse struct {
	ID         uint   `json:"id"`
	DistrictID uint   `json:"district_id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
}

type CreateProvinceRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,max=20"`
}

type CreateDistrictRequest struct {
	ProvinceID uint   `json:"province_id" validate:"required"`
	Name       string `json:"name" validate:"required,max=100"`
	Code       string `json:"code" validate:"required,max=20"`
}

type CreateWardRequest struct {
	DistrictID uint   `json:"district_id" validate:"required"`
	Name       string `json:"name" validate:"required,max=100"`
	Code       string `json:"code" validate:"required,max=20"`
}

func NewProvinceResponse(p *models.Province) *ProvinceResponse {
	if p == nil || p.ID == 0 {
		return nil
	}
	return &ProvinceResponse{ID: p.ID, Name: p.Name, Code: p.Code}
}

func NewDistrictResponse(d *models.District) *DistrictResponse {
	if d == nil || d.ID == 0 {
		return nil
	}
	return &DistrictResponse{ID: d.ID, ProvinceID: d.ProvinceID, Name: d.Name, Code: d.Code}
}

func NewWardResponse(w *models.Ward) *WardResponse {
	if w == nil || w.ID == 0 {
		return nil
	}
	return &WardResponse{ID: w.ID, DistrictID: w.DistrictID, Name: w.Name, Code: w.Code}
}
