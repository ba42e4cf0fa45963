package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, size)

	page, size = normalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, maxPageSize, size)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%studio%", likePattern("  Studio "))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestUniqueUints(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, uniqueUints([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, uniqueUints(nil))
}

func TestBuildPostSearchQuery(t *testing.T) {
	t.Run("only status filter", func(t *testing.T) {
		query, args := buildPostSearchQuery(PostSearchParams{})
		assert.Contains(t, query, "WHERE p.status = ?")
		assert.Equal(t, []interface{}{"published", postSearchLimit}, args)
	})

	t.Run("all filters", func(t *testing.T) {
		maxPrice := 5000000.0
		minArea := 25.0
		query, args := buildPostSearchQuery(PostSearchParams{
			Keyword:  "balcony",
			Province: "Hanoi",
			Category: "apartment",
			MaxPrice: &maxPrice,
			MinArea:  &minArea,
		})

		assert.Contains(t, query, "LOWER(pr.name) LIKE ?")
		assert.Contains(t, query, "p.price <= ?")
		assert.Contains(t, query, "p.area >= ?")
		assert.True(t, strings.HasSuffix(query, "LIMIT ?"))
		assert.Equal(t, strings.Count(query, "?"), len(args))
		assert.Equal(t, "%hanoi%", args[4])
		assert.Equal(t, maxPrice, args[7])
		assert.Equal(t, minArea, args[8])
	})

	t.Run("non positive numbers are ignored", func(t *testing.T) {
		zero := 0.0
		query, _ := buildPostSearchQuery(PostSearchParams{MaxPrice: &zero, MinArea: &zero})
		assert.NotContains(t, query, "p.price <=")
		assert.NotContains(t, query, "p.area >=")
	})
}
