package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental_backend/internal/models"
)

var treeBase = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func reviewAt(id, postID string, parentID *string, minutes int, rating *int) models.Review {
	r := models.Review{
		PostID:   postID,
		UserID:   "user-" + id,
		ParentID: parentID,
		Rating:   rating,
		Content:  "content " + id,
	}
	r.ID = id
	r.CreatedAt = treeBase.Add(time.Duration(minutes) * time.Minute)
	r.UpdatedAt = r.CreatedAt
	return r
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestBuildReviewTree_Nesting(t *testing.T) {
	reviews := []models.Review{
		reviewAt("r1", "p1", nil, 0, intPtr(5)),
		reviewAt("r2", "p1", nil, 10, intPtr(3)),
		reviewAt("a2", "p1", strPtr("r1"), 5, nil),
		reviewAt("a1", "p1", strPtr("r1"), 2, nil),
		reviewAt("a1-1", "p1", strPtr("a1"), 3, nil),
	}

	roots, index := buildReviewTree("p1", reviews)
	require.Len(t, roots, 2)

	// верхний уровень от новых к старым
	assert.Equal(t, "r2", roots[0].ID)
	assert.Equal(t, "r1", roots[1].ID)

	// ответы в хронологическом порядке
	r1 := roots[1]
	require.Len(t, r1.Replies, 2)
	assert.Equal(t, "a1", r1.Replies[0].ID)
	assert.Equal(t, "a2", r1.Replies[1].ID)
	require.Len(t, r1.Replies[0].Replies, 1)
	assert.Equal(t, "a1-1", r1.Replies[0].Replies[0].ID)

	assert.Len(t, index, 5)
	assert.NotNil(t, roots[0].Replies)
}

func TestBuildReviewTree_HiddenCutsSubtree(t *testing.T) {
	hidden := reviewAt("a1", "p1", strPtr("r1"), 1, nil)
	hidden.IsHidden = true
	hiddenRoot := reviewAt("r2", "p1", nil, 5, intPtr(1))
	hiddenRoot.IsHidden = true

	reviews := []models.Review{
		reviewAt("r1", "p1", nil, 0, intPtr(4)),
		hidden,
		reviewAt("a1-1", "p1", strPtr("a1"), 2, nil),
		reviewAt("a1-1-1", "p1", strPtr("a1-1"), 3, nil),
		reviewAt("a2", "p1", strPtr("r1"), 4, nil),
		hiddenRoot,
		reviewAt("b1", "p1", strPtr("r2"), 6, nil),
	}

	roots, index := buildReviewTree("p1", reviews)
	require.Len(t, roots, 1)
	assert.Equal(t, "r1", roots[0].ID)
	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, "a2", roots[0].Replies[0].ID)

	for _, id := range []string{"a1", "a1-1", "a1-1-1", "r2", "b1"} {
		_, ok := index[id]
		assert.False(t, ok, "node %s must be unreachable", id)
	}
	assert.Len(t, index, 2)
}

func TestBuildReviewTree_IgnoresForeignPostAndOrphans(t *testing.T) {
	reviews := []models.Review{
		reviewAt("r1", "p1", nil, 0, intPtr(4)),
		reviewAt("x1", "p2", nil, 1, intPtr(2)),
		// ответ числится за p1, но родитель принадлежит p2
		reviewAt("bad", "p1", strPtr("x1"), 2, nil),
		reviewAt("orphan", "p1", strPtr("missing"), 3, nil),
		reviewAt("self", "p1", strPtr("self"), 4, nil),
	}

	roots, index := buildReviewTree("p1", reviews)
	require.Len(t, roots, 1)
	assert.Equal(t, "r1", roots[0].ID)
	assert.Empty(t, roots[0].Replies)
	assert.Len(t, index, 1)
}

func TestBuildReviewTree_ChainsTerminateAtSamePostRoot(t *testing.T) {
	reviews := []models.Review{
		reviewAt("r1", "p1", nil, 0, intPtr(5)),
		reviewAt("a", "p1", strPtr("r1"), 1, nil),
		reviewAt("b", "p1", strPtr("a"), 2, nil),
		reviewAt("c", "p1", strPtr("b"), 3, nil),
	}
	byID := map[string]models.Review{}
	for _, r := range reviews {
		byID[r.ID] = r
	}

	_, index := buildReviewTree("p1", reviews)
	for id := range index {
		cur := byID[id]
		for steps := 0; cur.ParentID != nil; steps++ {
			require.Less(t, steps, len(reviews))
			cur = byID[*cur.ParentID]
		}
		assert.Equal(t, "p1", cur.PostID)
		assert.Nil(t, cur.ParentID)
	}
}

func TestCollectSubtreeIDs(t *testing.T) {
	hidden := reviewAt("a1", "p1", strPtr("r1"), 1, nil)
	hidden.IsHidden = true
	reviews := []models.Review{
		reviewAt("r1", "p1", nil, 0, intPtr(4)),
		hidden,
		reviewAt("a1-1", "p1", strPtr("a1"), 2, nil),
		reviewAt("a2", "p1", strPtr("r1"), 3, nil),
		reviewAt("r2", "p1", nil, 4, intPtr(2)),
		reviewAt("b1", "p1", strPtr("r2"), 5, nil),
	}

	ids := collectSubtreeIDs("r1", reviews)
	assert.ElementsMatch(t, []string{"r1", "a1", "a1-1", "a2"}, ids)
	assert.Equal(t, "r1", ids[0])

	assert.Equal(t, []string{"b1"}, collectSubtreeIDs("b1", reviews))
}

func TestSummarizeRatings(t *testing.T) {
	t.Run("mean of ratings", func(t *testing.T) {
		summary := summarizeRatings(map[int]int64{5: 2, 4: 1, 1: 1})
		assert.Equal(t, int64(4), summary.Total)
		assert.InDelta(t, 15.0/4.0, summary.Average, 1e-9)
		assert.Equal(t, int64(2), summary.Histogram[5])
		assert.Equal(t, int64(0), summary.Histogram[3])
		assert.Len(t, summary.Histogram, 5)
	})

	t.Run("empty", func(t *testing.T) {
		summary := summarizeRatings(nil)
		assert.Zero(t, summary.Total)
		assert.Zero(t, summary.Average)
		assert.Len(t, summary.Histogram, 5)
	})

	t.Run("out of range ignored", func(t *testing.T) {
		summary := summarizeRatings(map[int]int64{0: 3, 6: 1, 3: 2})
		assert.Equal(t, int64(2), summary.Total)
		assert.Equal(t, 3.0, summary.Average)
	})
}
