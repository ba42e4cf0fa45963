package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"type:varchar(36);not null;index"`
	Type    string `gorm:"size:50;not null"`
	Title   string `gorm:"size:255;not null"`
	Message string `gorm:"type:text"`
	Data    datatypes.JSON // {"post_id": "...", "review_id": "..."}
	IsRead  bool           `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
}

const (
	NotificationNewReview           = "new_review"
	NotificationReviewReply         = "review_reply"
	NotificationLessorApproved      = "lessor_application_approved"
	NotificationLessorRejected      = "lessor_application_rejected"
	NotificationAppointmentNew      = "appointment_new"
	NotificationAppointmentAccepted = "appointment_accepted"
	NotificationAppointmentDeclined = "appointment_declined"
	NotificationAppointmentCanceled = "appointment_cancelled"
)
