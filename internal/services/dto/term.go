package dto

import "rental_backend/internal/models"

// TermResponse - категория, удобство или особенность окружения
type TermResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

type TermRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"required,max=100,is-slug"`
	Icon string `json:"icon" validate:"omitempty,max=255"`
}

func NewTermResponse(t *models.Term) *TermResponse {
	if t == nil || t.ID == 0 {
		return nil
	}
	return &TermResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, Icon: t.Icon}
}
