package models

import "time"

// Payment - заготовка под платное продвижение объявлений, API пока нет
type Payment struct {
	BaseModel
	UserID      string        `gorm:"type:varchar(36);not null;index"`
	PostID      *string       `gorm:"type:varchar(36);index"`
	Amount      float64       `gorm:"not null"`
	Currency    string        `gorm:"size:3;not null;default:'VND'"`
	Status      PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ProviderRef string        `gorm:"size:100;index"`
	PaidAt      *time.Time
}
