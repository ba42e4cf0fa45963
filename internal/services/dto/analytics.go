package dto

import "time"

// PlatformOverview - сводка для администратора за период
type PlatformOverview struct {
	DateFrom time.Time `json:"date_from"`
	DateTo   time.Time `json:"date_to"`

	NewUsers        int64            `json:"new_users"`
	UsersByRole     map[string]int64 `json:"users_by_role"`
	NewPosts        int64            `json:"new_posts"`
	PostsByStatus   map[string]int64 `json:"posts_by_status"`
	NewReviews      int64            `json:"new_reviews"`
	Applications    map[string]int64 `json:"lessor_applications"`
	Appointments    map[string]int64 `json:"appointments"`
	AverageRating   float64          `json:"average_rating"`
	RatedReviews    int64            `json:"rated_reviews"`
	PendingDecision int64            `json:"pending_applications"`
}

type CategoryStats struct {
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
	PostCount  int64  `json:"post_count"`
}
