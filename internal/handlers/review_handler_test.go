package handlers

import (
	"context"
	"net/http"
	"testing"

	"rental_backend/internal/models"
	"rental_backend/internal/services"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReviewService struct {
	createErr error

	calls      []string
	userID     string
	targetID   string
	content    string
	listQuery  dto.ReviewListQuery
	hidden     *bool
	viewerRole models.UserRole
}

func (f *fakeReviewService) CreateReview(ctx context.Context, db *gorm.DB, userID, postID string, req *dto.CreateReviewRequest) (*dto.ReviewNode, error) {
	f.calls = append(f.calls, "create")
	f.userID, f.targetID, f.content = userID, postID, req.Content
	if f.createErr != nil {
		return nil, f.createErr
	}
	rating := req.Rating
	return &dto.ReviewNode{ID: "r1", PostID: postID, Rating: &rating, Content: req.Content}, nil
}

func (f *fakeReviewService) ReplyToReview(ctx context.Context, db *gorm.DB, userID, reviewID string, req *dto.ReplyRequest) (*dto.ReviewNode, error) {
	f.calls = append(f.calls, "reply-review")
	f.userID, f.targetID, f.content = userID, reviewID, req.Content
	return &dto.ReviewNode{ID: "x1", ParentID: &reviewID, Content: req.Content}, nil
}

func (f *fakeReviewService) ReplyToReply(ctx context.Context, db *gorm.DB, userID, replyID string, req *dto.ReplyRequest) (*dto.ReviewNode, error) {
	f.calls = append(f.calls, "reply-reply")
	f.userID, f.targetID, f.content = userID, replyID, req.Content
	return &dto.ReviewNode{ID: "x2", ParentID: &replyID, Content: req.Content}, nil
}

func (f *fakeReviewService) UpdateReview(ctx context.Context, db *gorm.DB, userID, reviewID string, req *dto.UpdateReviewRequest) (*dto.ReviewNode, error) {
	f.calls = append(f.calls, "update")
	return &dto.ReviewNode{ID: reviewID}, nil
}

func (f *fakeReviewService) DeleteReview(ctx context.Context, db *gorm.DB, viewer services.Viewer, reviewID string) error {
	f.calls = append(f.calls, "delete")
	f.userID, f.targetID, f.viewerRole = viewer.UserID, reviewID, viewer.Role
	return nil
}

func (f *fakeReviewService) GetTree(ctx context.Context, db *gorm.DB, viewer services.Viewer, postID string) (*dto.ReviewTreeResponse, error) {
	f.calls = append(f.calls, "tree")
	return &dto.ReviewTreeResponse{PostID: postID, Reviews: []*dto.ReviewNode{}}, nil
}

func (f *fakeReviewService) ListReviews(ctx context.Context, db *gorm.DB, viewer services.Viewer, postID string, query dto.ReviewListQuery) (*dto.ReviewListResponse, error) {
	f.calls = append(f.calls, "list")
	f.targetID, f.listQuery = postID, query
	return &dto.ReviewListResponse{Reviews: []*dto.ReviewNode{}}, nil
}

func (f *fakeReviewService) GetSummary(ctx context.Context, db *gorm.DB, viewer services.Viewer, postID string) (*dto.RatingSummary, error) {
	f.calls = append(f.calls, "summary")
	return &dto.RatingSummary{}, nil
}

func (f *fakeReviewService) SetHidden(ctx context.Context, db *gorm.DB, reviewID string, hidden bool) error {
	f.calls = append(f.calls, "hide")
	f.targetID, f.hidden = reviewID, &hidden
	return nil
}

func (f *fakeReviewService) AdminListReviews(ctx context.Context, db *gorm.DB, query dto.AdminReviewQuery) (*dto.ReviewListResponse, error) {
	f.calls = append(f.calls, "admin-list")
	return &dto.ReviewListResponse{}, nil
}

func TestReviewHandler_CreateReview(t *testing.T) {
	svc := &fakeReviewService{}
	r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewReviewHandler(base, svc) })
	token := bearer(t, "renter-1", models.UserRoleUser)

	w := perform(r, http.MethodPost, "/api/v1/posts/post-1/reviews", token, map[string]interface{}{"rating": 5, "content": "Уютно"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, []string{"create"}, svc.calls)
	assert.Equal(t, "renter-1", svc.userID)
	assert.Equal(t, "post-1", svc.targetID)
	assert.Contains(t, w.Body.String(), `"rating":5`)
}

func TestReviewHandler_CreateReview_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		token  bool
		body   map[string]interface{}
		err    error
		status int
		called bool
	}{
		{name: "guest", token: false, body: map[string]interface{}{"rating": 5, "content": "ok"}, status: http.StatusUnauthorized},
		{name: "rating out of range", token: true, body: map[string]interface{}{"rating": 6, "content": "ok"}, status: http.StatusBadRequest},
		{name: "empty content", token: true, body: map[string]interface{}{"rating": 3, "content": ""}, status: http.StatusBadRequest},
		{name: "duplicate", token: true, body: map[string]interface{}{"rating": 3, "content": "ok"}, err: apperrors.ErrDuplicateReview, status: http.StatusConflict, called: true},
		{name: "own post", token: true, body: map[string]interface{}{"rating": 3, "content": "ok"}, err: apperrors.ErrOwnPostReview, status: http.StatusForbidden, called: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeReviewService{createErr: tt.err}
			r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewReviewHandler(base, svc) })

			token := ""
			if tt.token {
				token = bearer(t, "renter-1", models.UserRoleUser)
			}
			w := perform(r, http.MethodPost, "/api/v1/posts/post-1/reviews", token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.called, len(svc.calls) > 0)
		})
	}
}

func TestReviewHandler_ReplyEndpoints(t *testing.T) {
	svc := &fakeReviewService{}
	r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewReviewHandler(base, svc) })
	token := bearer(t, "owner-1", models.UserRoleLessor)

	w := perform(r, http.MethodPost, "/api/v1/reviews/review-1/replies", token, map[string]interface{}{"content": "Спасибо"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "review-1", svc.targetID)

	w = perform(r, http.MethodPost, "/api/v1/replies/reply-9/replies", token, map[string]interface{}{"content": "И вам"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "reply-9", svc.targetID)
	assert.Equal(t, "owner-1", svc.userID)

	assert.Equal(t, []string{"reply-review", "reply-reply"}, svc.calls)
}

func TestReviewHandler_ListAppliesDefaultPagination(t *testing.T) {
	svc := &fakeReviewService{}
	r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewReviewHandler(base, svc) })

	w := perform(r, http.MethodGet, "/api/v1/posts/post-1/reviews?rating=4", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "post-1", svc.targetID)
	assert.Equal(t, 4, svc.listQuery.Rating)
	assert.Equal(t, 1, svc.listQuery.Page)
	assert.Equal(t, 20, svc.listQuery.PageSize)

	w = perform(r, http.MethodGet, "/api/v1/posts/post-1/reviews?page_size=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_Moderation(t *testing.T) {
	svc := &fakeReviewService{}
	r := newTestRouter(t, func(base *BaseHandler) routeRegistrar { return NewReviewHandler(base, svc) })

	w := perform(r, http.MethodPut, "/api/v1/admin/reviews/review-1/hide", bearer(t, "u1", models.UserRoleLessor), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.calls)

	admin := bearer(t, "admin-1", models.UserRoleAdmin)
	w = perform(r, http.MethodPut, "/api/v1/admin/reviews/review-1/hide", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.hidden)
	assert.True(t, *svc.hidden)

	w = perform(r, http.MethodPut, "/api/v1/admin/reviews/review-1/unhide", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, *svc.hidden)

	w = perform(r, http.MethodDelete, "/api/v1/admin/reviews/review-1", admin, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, models.UserRoleAdmin, svc.viewerRole)
}
