package dto

import "time"

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// ReplyRequest - ответ на отзыв или на другой ответ
type ReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Content *string `json:"content" validate:"omitempty,min=1,max=2000"`
}

type ReviewListQuery struct {
	Rating   int `form:"rating" validate:"omitempty,min=1,max=5"`
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// AdminReviewQuery - список для модерации, скрытые включены
type AdminReviewQuery struct {
	PostID   string `form:"post_id" validate:"omitempty,uuid"`
	UserID   string `form:"user_id" validate:"omitempty,uuid"`
	IsHidden *bool  `form:"is_hidden"`
	Rating   int    `form:"rating" validate:"omitempty,min=1,max=5"`
	TopLevel bool   `form:"top_level"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// ReviewNode - узел дерева: отзыв верхнего уровня или ответ
type ReviewNode struct {
	ID        string        `json:"id"`
	PostID    string        `json:"post_id"`
	ParentID  *string       `json:"parent_id"`
	Rating    *int          `json:"rating,omitempty"`
	Content   string        `json:"content"`
	IsHidden  bool          `json:"is_hidden,omitempty"`
	Author    *UserSummary  `json:"author,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Replies   []*ReviewNode `json:"replies"`
}

type RatingSummary struct {
	Average   float64       `json:"average"`
	Total     int64         `json:"total"`
	Histogram map[int]int64 `json:"histogram"`
}

type ReviewTreeResponse struct {
	PostID  string        `json:"post_id"`
	Summary RatingSummary `json:"summary"`
	Reviews []*ReviewNode `json:"reviews"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewNode `json:"reviews"`
	Pagination Pagination    `json:"pagination"`
}
