package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"rental_backend/internal/auth"
	"rental_backend/internal/imageprocessor"
	"rental_backend/internal/logger"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error
	UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.UserResponse, error)

	// Admin
	ListUsers(db *gorm.DB, query dto.UserListQuery) (*dto.UserListResponse, error)
	UpdateUserStatus(db *gorm.DB, adminID, userID string, status models.UserStatus) error
	UpdateUserRole(db *gorm.DB, adminID, userID string, role models.UserRole) error

	// EnsureAdmin создает администратора, если пользователя с таким email еще нет
	EnsureAdmin(db *gorm.DB, email, password string) (bool, error)
}

type userService struct {
	userRepo      repositories.UserRepository
	uploadService UploadService
}

func NewUserService(userRepo repositories.UserRepository, uploadService UploadService) UserService {
	return &userService{
		userRepo:      userRepo,
		uploadService: uploadService,
	}
}

func (s *userService) GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Phone = req.Phone
	if err := s.userRepo.Update(db, user); err != nil {
		return nil, handleUserError(err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) ChangePassword(db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return handleUserError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrWrongPassword
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ValidationError(map[string]string{"new_password": err.Error()})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash
	return handleUserError(s.userRepo.Update(db, user))
}

func (s *userService) UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	uploaded, err := s.uploadService.UploadImage(ctx, file, ImageUploadRequest{
		Folder: "avatars",
		Size:   imageprocessor.SizeAvatar,
	})
	if err != nil {
		return nil, err
	}

	user.AvatarURL = uploaded.URL
	if err := s.userRepo.Update(db, user); err != nil {
		s.uploadService.DeleteObjects(ctx, uploaded.Key)
		return nil, handleUserError(err)
	}

	logger.CtxInfo(ctx, "Avatar updated", "user_id", userID, "key", uploaded.Key)
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) ListUsers(db *gorm.DB, query dto.UserListQuery) (*dto.UserListResponse, error) {
	users, total, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
		Role:     models.UserRole(query.Role),
		Status:   models.UserStatus(query.Status),
		Search:   query.Keyword,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return &dto.UserListResponse{
		Users:      items,
		Pagination: dto.NewPagination(total, query.Page, query.PageSize),
	}, nil
}

func (s *userService) UpdateUserStatus(db *gorm.DB, adminID, userID string, status models.UserStatus) error {
	if adminID == userID {
		return apperrors.ErrCannotModifySelf
	}
	if !status.IsValid() {
		return apperrors.ErrInvalidOperation("user", "Unknown user status")
	}
	return handleUserError(s.userRepo.UpdateStatus(db, userID, status))
}

func (s *userService) UpdateUserRole(db *gorm.DB, adminID, userID string, role models.UserRole) error {
	if adminID == userID {
		return apperrors.ErrCannotModifySelf
	}
	if !role.IsValid() {
		return apperrors.ErrInvalidOperation("user", "Unknown user role")
	}
	return handleUserError(s.userRepo.UpdateRole(db, userID, role))
}

func (s *userService) EnsureAdmin(db *gorm.DB, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if _, err := s.userRepo.FindByEmail(db, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(db, admin); err != nil {
		return false, err
	}
	return true, nil
}

func handleUserError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrNotFound(err)
	}
	if errors.Is(err, repositories.ErrUserAlreadyExists) {
		return apperrors.ErrEmailAlreadyExists
	}
	return apperrors.InternalError(err)
}
