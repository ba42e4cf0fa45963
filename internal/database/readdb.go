package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"rental_backend/internal/config"
)

// OpenReadPool открывает отдельный пул sqlx для запросов только на чтение
// (поиск чат-бота). Если read_url не задан, используется основной DSN.
func OpenReadPool(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driverName := "postgres"
	if cfg.Database.Driver == "mysql" {
		driverName = "mysql"
	}

	db, err := sqlx.ConnectContext(ctx, driverName, cfg.ReadDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect read pool: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}
