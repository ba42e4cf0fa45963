package auth

import "rental_backend/internal/models"

// Разрешения по ролям
const (
	PermPostsWrite        = "posts:write"
	PermPostsModerate     = "posts:moderate"
	PermReviewsModerate   = "reviews:moderate"
	PermLessorApply       = "lessor:apply"
	PermLessorReview      = "lessor:review"
	PermUsersManage       = "users:manage"
	PermDictionaryManage  = "dictionary:manage"
	PermAppointmentsAdmin = "appointments:admin"
)

var Permissions = map[models.UserRole][]string{
	models.UserRoleAdmin: {
		PermPostsWrite,
		PermPostsModerate,
		PermReviewsModerate,
		PermLessorReview,
		PermUsersManage,
		PermDictionaryManage,
		PermAppointmentsAdmin,
	},
	models.UserRoleLessor: {
		PermPostsWrite,
	},
	models.UserRoleUser: {
		PermLessorApply,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// CanManagePost - владелец объявления или модератор
func CanManagePost(role models.UserRole, userID string, post *models.Post) bool {
	return post.IsOwnedBy(userID) || HasPermission(role, PermPostsModerate)
}
