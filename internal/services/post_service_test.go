package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rental_backend/internal/cache"
	"rental_backend/internal/models"
	"rental_backend/internal/services/dto"
)

func TestPostQueryParams_StableForEquivalentQueries(t *testing.T) {
	price := 300.0
	a := dto.PostListQuery{Keyword: " Studio ", PriceMax: &price, AmenityIDs: []uint{3, 1, 2}, Page: 1, PageSize: 20}
	b := dto.PostListQuery{Keyword: "studio", PriceMax: &price, AmenityIDs: []uint{2, 3, 1}, Page: 1, PageSize: 20}

	pa, pb := postQueryParams(a), postQueryParams(b)
	assert.Equal(t, pa, pb)
	assert.Equal(t, "1,2,3", pa["amenity_ids"])
	assert.Equal(t, "300", pa["price_max"])
	assert.Equal(t, cache.QueryKey("posts", 1, pa), cache.QueryKey("posts", 1, pb))

	// исходный срез не сортируется на месте
	assert.Equal(t, []uint{3, 1, 2}, a.AmenityIDs)
}

func TestPostQueryParams_DistinctFilters(t *testing.T) {
	base := postQueryParams(dto.PostListQuery{Page: 1, PageSize: 20})
	_, hasCategory := base["category_id"]
	assert.False(t, hasCategory)

	withCategory := postQueryParams(dto.PostListQuery{CategoryID: 4, Page: 1, PageSize: 20})
	assert.Equal(t, "4", withCategory["category_id"])
	assert.NotEqual(t, cache.QueryKey("posts", 1, base), cache.QueryKey("posts", 1, withCategory))
}

func TestViewer_IsAdmin(t *testing.T) {
	assert.True(t, Viewer{UserID: "a", Role: models.UserRoleAdmin}.IsAdmin())
	assert.False(t, Viewer{UserID: "u", Role: models.UserRoleLessor}.IsAdmin())
	assert.False(t, Viewer{}.IsAdmin())
}
