package dto

import (
	"time"

	"rental_backend/internal/models"
)

type CreateLessorApplicationRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=150"`
	Phone          string `json:"phone" validate:"required,is-phone"`
	IdentityNumber string `json:"identity_number" validate:"required,min=6,max=50"`
	Note           string `json:"note" validate:"omitempty,max=2000"`
}

type RejectLessorApplicationRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

type LessorApplicationQuery struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type LessorApplicationResponse struct {
	ID              string                         `json:"id"`
	UserID          string                         `json:"user_id"`
	User            *UserSummary                   `json:"user,omitempty"`
	FullName        string                         `json:"full_name"`
	Phone           string                         `json:"phone"`
	IdentityNumber  string                         `json:"identity_number"`
	Note            string                         `json:"note,omitempty"`
	Status          models.LessorApplicationStatus `json:"status"`
	RejectionReason string                         `json:"rejection_reason,omitempty"`
	ReviewedBy      *string                        `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time                     `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`

	// ResubmitAvailableAt - подсказка клиенту, когда показывать форму повторной подачи
	ResubmitAvailableAt *time.Time `json:"resubmit_available_at,omitempty"`
}

type LessorApplicationListResponse struct {
	Applications []LessorApplicationResponse `json:"applications"`
	Pagination   Pagination                  `json:"pagination"`
}

func NewLessorApplicationResponse(app *models.LessorApplication) LessorApplicationResponse {
	return LessorApplicationResponse{
		ID:              app.ID,
		UserID:          app.UserID,
		User:            NewUserSummary(&app.User),
		FullName:        app.FullName,
		Phone:           app.Phone,
		IdentityNumber:  app.IdentityNumber,
		Note:            app.Note,
		Status:          app.Status,
		RejectionReason: app.RejectionReason,
		ReviewedBy:      app.ReviewedBy,
		ReviewedAt:      app.ReviewedAt,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}
