package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"rental_backend/internal/models"
)

const postSearchLimit = 5

// PostSearchParams - параметры, извлеченные из сообщения пользователя
type PostSearchParams struct {
	Keyword  string
	Province string
	Category string
	MaxPrice *float64
	MinArea  *float64
}

type PostSearchRow struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Price        float64   `db:"price"`
	Area         float64   `db:"area"`
	Address      string    `db:"address"`
	ProvinceName string    `db:"province_name"`
	CategoryName string    `db:"category_name"`
	CreatedAt    time.Time `db:"created_at"`
}

// PostSearchRepository - поиск опубликованных объявлений на пуле только для чтения
type PostSearchRepository interface {
	SearchPublished(ctx context.Context, params PostSearchParams) ([]PostSearchRow, error)
}

type PostSearchRepositoryImpl struct {
	db *sqlx.DB
}

func NewPostSearchRepository(db *sqlx.DB) PostSearchRepository {
	return &PostSearchRepositoryImpl{db: db}
}

func (r *PostSearchRepositoryImpl) SearchPublished(ctx context.Context, params PostSearchParams) ([]PostSearchRow, error) {
	query, args := buildPostSearchQuery(params)
	rows := []PostSearchRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// buildPostSearchQuery собирает запрос с плейсхолдерами "?", Rebind подставляет нужные для драйвера
func buildPostSearchQuery(params PostSearchParams) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`SELECT p.id, p.title, p.price, p.area, p.address,
	COALESCE(pr.name, '') AS province_name, COALESCE(c.name, '') AS category_name, p.created_at
FROM posts p
LEFT JOIN provinces pr ON pr.id = p.province_id
LEFT JOIN categories c ON c.id = p.category_id
WHERE p.status = ?`)
	args := []interface{}{string(models.PostStatusPublished)}

	if kw := strings.TrimSpace(params.Keyword); kw != "" {
		pattern := likePattern(kw)
		sb.WriteString(" AND (LOWER(p.title) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(p.address) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if province := strings.TrimSpace(params.Province); province != "" {
		sb.WriteString(" AND LOWER(pr.name) LIKE ?")
		args = append(args, likePattern(province))
	}
	if category := strings.TrimSpace(params.Category); category != "" {
		sb.WriteString(" AND (LOWER(c.name) LIKE ? OR LOWER(c.slug) LIKE ?)")
		pattern := likePattern(category)
		args = append(args, pattern, pattern)
	}
	if params.MaxPrice != nil && *params.MaxPrice > 0 {
		sb.WriteString(" AND p.price <= ?")
		args = append(args, *params.MaxPrice)
	}
	if params.MinArea != nil && *params.MinArea > 0 {
		sb.WriteString(" AND p.area >= ?")
		args = append(args, *params.MinArea)
	}

	sb.WriteString(" ORDER BY p.created_at DESC LIMIT ?")
	args = append(args, postSearchLimit)
	return sb.String(), args
}
