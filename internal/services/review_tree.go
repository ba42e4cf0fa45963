package services

import (
	"sort"

	"rental_backend/internal/models"
	"rental_backend/internal/services/dto"
)

// buildReviewTree строит дерево из плоского списка узлов объявления.
// В дерево попадают только видимые узлы, чья цепочка родителей видима и
// заканчивается отзывом верхнего уровня того же объявления. Скрытый узел
// отрезает все свое поддерево. Отзывы верхнего уровня идут от новых к старым,
// ответы в хронологическом порядке.
func buildReviewTree(postID string, reviews []models.Review) ([]*dto.ReviewNode, map[string]*dto.ReviewNode) {
	nodes := make(map[string]*dto.ReviewNode, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		if r.IsHidden || r.PostID != postID {
			continue
		}
		nodes[r.ID] = newReviewNode(r)
	}

	roots := make([]*dto.ReviewNode, 0)
	for i := range reviews {
		node, ok := nodes[reviews[i].ID]
		if !ok {
			continue
		}
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*node.ParentID]; ok && parent.ID != node.ID {
			parent.Replies = append(parent.Replies, node)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})

	// Индекс только достижимых от корней узлов
	reachable := make(map[string]*dto.ReviewNode, len(nodes))
	queue := append([]*dto.ReviewNode(nil), roots...)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if _, seen := reachable[node.ID]; seen {
			continue
		}
		reachable[node.ID] = node
		sort.SliceStable(node.Replies, func(i, j int) bool {
			return node.Replies[i].CreatedAt.Before(node.Replies[j].CreatedAt)
		})
		queue = append(queue, node.Replies...)
	}

	return roots, reachable
}

// collectSubtreeIDs возвращает id узла и всех его потомков, включая скрытые
func collectSubtreeIDs(rootID string, reviews []models.Review) []string {
	children := make(map[string][]string, len(reviews))
	for i := range reviews {
		if p := reviews[i].ParentID; p != nil {
			children[*p] = append(children[*p], reviews[i].ID)
		}
	}

	ids := []string{rootID}
	seen := map[string]bool{rootID: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids
}

// summarizeRatings - среднее и гистограмма по количеству отзывов на каждую оценку
func summarizeRatings(counts map[int]int64) dto.RatingSummary {
	summary := dto.RatingSummary{Histogram: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}

	var sum int64
	for rating, count := range counts {
		if rating < 1 || rating > 5 || count <= 0 {
			continue
		}
		summary.Histogram[rating] = count
		summary.Total += count
		sum += int64(rating) * count
	}
	if summary.Total > 0 {
		summary.Average = float64(sum) / float64(summary.Total)
	}
	return summary
}

func newReviewNode(r *models.Review) *dto.ReviewNode {
	return &dto.ReviewNode{
		ID:        r.ID,
		PostID:    r.PostID,
		ParentID:  r.ParentID,
		Rating:    r.Rating,
		Content:   r.Content,
		IsHidden:  r.IsHidden,
		Author:    dto.NewUserSummary(&r.User),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Replies:   []*dto.ReviewNode{},
	}
}
