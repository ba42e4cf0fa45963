package helpers

import (
	"fmt"
	"log"
	"net/http"
	"testing"
	"time"

	"rental_backend/internal/auth"
	"rental_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const DefaultPassword = "password123"

// CreateUser создает активного пользователя с захешированным DefaultPassword
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s_%d@test.com", role, time.Now().UnixNano()),
		PasswordHash: hash,
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error, "Создание тестового пользователя не должно вызывать ошибку")
	return user
}

// Login получает токен через API
func Login(t *testing.T, ts *TestServer, email string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": DefaultPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+body)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	DecodeJSON(t, body, &loginResponse)
	require.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")
	return loginResponse.Token
}

// CreateAndLoginUser создает пользователя с ролью и логинит его
func CreateAndLoginUser(t *testing.T, ts *TestServer, name string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := CreateUser(t, ts.DB, name, role)
	token := Login(t, ts, user.Email)
	log.Printf("✅ [Helper] Создан и залогинен пользователь %s (Role: %s)", user.Email, role)
	return token, user
}

// Catalog - минимальный набор справочников для объявления
type Catalog struct {
	Province models.Province
	District models.District
	Category models.Category
}

func CreateCatalog(t *testing.T, db *gorm.DB) Catalog {
	t.Helper()

	suffix := time.Now().UnixNano()
	catalog := Catalog{
		Province: models.Province{Name: "Hà Nội", Code: fmt.Sprintf("P%d", suffix%1000000)},
		Category: models.Category{Term: models.Term{Name: "Phòng trọ", Slug: fmt.Sprintf("phong-tro-%d", suffix)}},
	}
	require.NoError(t, db.Create(&catalog.Province).Error)

	catalog.District = models.District{ProvinceID: catalog.Province.ID, Name: "Cầu Giấy", Code: fmt.Sprintf("D%d", suffix%1000000)}
	require.NoError(t, db.Create(&catalog.District).Error)
	require.NoError(t, db.Create(&catalog.Category).Error)
	return catalog
}

// CreatePost создает объявление владельца напрямую в БД
func CreatePost(t *testing.T, db *gorm.DB, ownerID string, catalog Catalog, status models.PostStatus) *models.Post {
	t.Helper()

	post := &models.Post{
		OwnerID:     ownerID,
		CategoryID:  catalog.Category.ID,
		Title:       "Phòng trọ gần trường",
		Description: "Phòng sạch, có điều hòa",
		Price:       2500000,
		Area:        25,
		Address:     "12 Trần Thái Tông",
		ProvinceID:  catalog.Province.ID,
		DistrictID:  catalog.District.ID,
		Status:      status,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
