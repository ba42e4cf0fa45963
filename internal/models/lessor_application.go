package models

import "time"

// LessorApplication - заявка пользователя на роль арендодателя
type LessorApplication struct {
	BaseModel
	UserID          string                  `gorm:"type:varchar(36);not null;index"`
	FullName        string                  `gorm:"size:150;not null"`
	Phone           string                  `gorm:"size:30;not null"`
	IdentityNumber  string                  `gorm:"size:50;not null"`
	Note            string                  `gorm:"type:text"`
	Status          LessorApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string                  `gorm:"type:text"`
	ReviewedBy      *string                 `gorm:"type:varchar(36)"`
	ReviewedAt      *time.Time

	User User `gorm:"foreignKey:UserID"`
}
