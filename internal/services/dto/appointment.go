package dto

import (
	"time"

	"rental_backend/internal/models"
)

type CreateAppointmentRequest struct {
	PostID          string    `json:"post_id" validate:"required,uuid"`
	AppointmentTime time.Time `json:"appointment_time" validate:"required"`
	Note            string    `json:"note" validate:"omitempty,max=1000"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

type AppointmentQuery struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending accepted declined cancelled completed"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type PostSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Address string `json:"address"`
}

type AppointmentResponse struct {
	ID              string                   `json:"id"`
	PostID          string                   `json:"post_id"`
	Post            *PostSummary             `json:"post,omitempty"`
	RenterID        string                   `json:"renter_id"`
	Renter          *UserSummary             `json:"renter,omitempty"`
	OwnerID         string                   `json:"owner_id"`
	Owner           *UserSummary             `json:"owner,omitempty"`
	AppointmentTime time.Time                `json:"appointment_time"`
	Note            string                   `json:"note,omitempty"`
	Status          models.AppointmentStatus `json:"status"`
	CancelReason    string                   `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Pagination   Pagination            `json:"pagination"`
}

func NewAppointmentResponse(a *models.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              a.ID,
		PostID:          a.PostID,
		RenterID:        a.RenterID,
		Renter:          NewUserSummary(&a.Renter),
		OwnerID:         a.OwnerID,
		Owner:           NewUserSummary(&a.Owner),
		AppointmentTime: a.AppointmentTime,
		Note:            a.Note,
		Status:          a.Status,
		CancelReason:    a.CancelReason,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Post.ID != "" {
		resp.Post = &PostSummary{ID: a.Post.ID, Title: a.Post.Title, Address: a.Post.Address}
	}
	return resp
}
