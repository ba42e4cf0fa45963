package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rental_backend/internal/database"
	"rental_backend/internal/models"
)

// newSQLiteDB - отдельная in-memory база на каждый тест.
// Одно соединение: сервисы работают строго через tx, пока транзакция открыта.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s_%d@test.com", name, time.Now().UnixNano()),
		PasswordHash: "hash",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, ownerID string, status models.PostStatus) *models.Post {
	t.Helper()
	suffix := time.Now().UnixNano()

	province := models.Province{Name: "Hà Nội", Code: fmt.Sprintf("P%d", suffix)}
	require.NoError(t, db.Create(&province).Error)
	district := models.District{ProvinceID: province.ID, Name: "Cầu Giấy", Code: fmt.Sprintf("D%d", suffix)}
	require.NoError(t, db.Create(&district).Error)
	category := models.Category{Term: models.Term{Name: "Phòng trọ", Slug: fmt.Sprintf("phong-tro-%d", suffix)}}
	require.NoError(t, db.Create(&category).Error)

	post := &models.Post{
		OwnerID:    ownerID,
		CategoryID: category.ID,
		Title:      "Phòng trọ gần trường",
		Price:      2500000,
		Area:       25,
		ProvinceID: province.ID,
		DistrictID: district.ID,
		Status:     status,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
