package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"rental_backend/internal/app"
	"rental_backend/internal/auth"
	"rental_backend/internal/cache"
	"rental_backend/internal/config"
	"rental_backend/internal/database"
	"rental_backend/internal/email"
	"rental_backend/internal/llm"
	"rental_backend/internal/logger"
	"rental_backend/internal/storage"

	"gorm.io/gorm"
)

// TestServer - httptest сервер поверх настоящей БД
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	infra  *app.Infrastructure
}

// NewTestServer поднимает приложение на базе из TEST_DATABASE_URL.
// Без переменной тест пропускается.
func NewTestServer(t *testing.T) *TestServer {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set, skipping integration tests")
	}

	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.Database.DSN = dsn
	cfg.Database.LogLevel = "silent"
	cfg.JWT.Secret = "my_super_secret_key_for_tests_12345"
	if driver := os.Getenv("TEST_DATABASE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}

	logger.Init(cfg.Server.Env, "error")
	auth.Init(cfg.JWT.Secret, cfg.JWTTTL())

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить миграцию тестовой БД: %v", err)
	}

	ctx := context.Background()
	uploadsDir, err := os.MkdirTemp("", "rental-uploads-*")
	if err != nil {
		t.Fatalf("Не удалось создать каталог для загрузок: %v", err)
	}
	store, err := storage.NewStorage(ctx, storage.Config{Type: "local", BasePath: uploadsDir, BaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("Не удалось создать хранилище: %v", err)
	}
	readPool, err := database.OpenReadPool(ctx, cfg)
	if err != nil {
		t.Fatalf("Не удалось открыть пул чтения: %v", err)
	}

	infra := &app.Infrastructure{
		Storage: store,
		Cache:   cache.NoopCache{},
		Email:   email.NewLogProvider(email.NewTemplateManager()),
		// без ключа ассистент отвечает 503
		LLM:      llm.NewHTTPClient(llm.Config{BaseURL: "http://127.0.0.1:0"}),
		ReadPool: readPool,
	}

	router, _ := app.SetupRouter(cfg, db, infra)
	server := httptest.NewServer(router)

	log.Printf("✅ Тестовый сервер запущен на %s", server.URL)

	return &TestServer{
		Server: server,
		DB:     db,
		infra:  infra,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.infra.Close()
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// ClearTables очищает все таблицы приложения
func (ts *TestServer) ClearTables(t *testing.T) {
	tables := []string{
		"notifications", "appointments", "lessor_applications", "reviews",
		"post_environment_features", "post_amenities", "post_images", "posts", "payments",
		"environment_features", "amenities", "categories",
		"wards", "districts", "provinces", "users",
	}

	if ts.DB.Dialector.Name() == "postgres" {
		sql := "TRUNCATE TABLE "
		for i, table := range tables {
			if i > 0 {
				sql += ", "
			}
			sql += table
		}
		if err := ts.DB.Exec(sql + " RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatalf("Не удалось очистить таблицы: %v", err)
		}
		return
	}

	for _, table := range tables {
		if err := ts.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("Не удалось очистить таблицу %s: %v", table, err)
		}
	}
}

// SendRequest отправляет JSON запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}

	return res, string(resBodyBytes)
}

// DecodeJSON разбирает тело ответа в out
func DecodeJSON(t *testing.T, body string, out interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("Не удалось распарсить JSON: %v, тело: %s", err, body)
	}
}
