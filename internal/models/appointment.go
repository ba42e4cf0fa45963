package models

import "time"

// Appointment - запрос на просмотр объекта
type Appointment struct {
	BaseModel
	PostID          string            `gorm:"type:varchar(36);not null;index"`
	RenterID        string            `gorm:"type:varchar(36);not null;index"`
	OwnerID         string            `gorm:"type:varchar(36);not null;index"`
	AppointmentTime time.Time         `gorm:"not null;index"`
	Note            string            `gorm:"type:text"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	CancelReason    string            `gorm:"type:text"`

	Post   Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Renter User `gorm:"foreignKey:RenterID"`
	Owner  User `gorm:"foreignKey:OwnerID"`
}

func (a *Appointment) IsParticipant(userID string) bool {
	return a.RenterID == userID || a.OwnerID == userID
}
