package models

type User struct {
	BaseModel
	Name         string     `gorm:"size:120;not null"`
	Email        string     `gorm:"size:190;uniqueIndex;not null"`
	Phone        string     `gorm:"size:30"`
	PasswordHash string     `gorm:"not null"`
	AvatarURL    string     `gorm:"size:500"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'user';index"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// CanLogin - заблокированные и приостановленные аккаунты не получают токен
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive
}
