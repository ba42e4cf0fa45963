package models

// Review - узел дерева отзывов.
// ParentID == nil - отзыв верхнего уровня с оценкой, иначе ответ без оценки.
// Ответ всегда относится к тому же объявлению, что и его родитель.
type Review struct {
	BaseModel
	PostID   string  `gorm:"type:varchar(36);not null;index"`
	UserID   string  `gorm:"type:varchar(36);not null;index"`
	ParentID *string `gorm:"type:varchar(36);index"`
	Rating   *int    `gorm:"check:rating IS NULL OR (rating >= 1 AND rating <= 5)"`
	Content  string  `gorm:"type:text;not null"`
	IsHidden bool    `gorm:"not null;default:false;index"`

	User User `gorm:"foreignKey:UserID"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (r *Review) IsTopLevel() bool {
	return r.ParentID == nil
}
