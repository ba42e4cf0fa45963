package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"
)

type reviewFixture struct {
	db            *gorm.DB
	svc           ReviewService
	notifications NotificationService
	owner         *models.User
	renter        *models.User
	other         *models.User
	post          *models.Post
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	db := newSQLiteDB(t)
	notifications := NewNotificationService(repositories.NewNotificationRepository())

	f := &reviewFixture{
		db:            db,
		notifications: notifications,
		svc:           NewReviewService(repositories.NewReviewRepository(), repositories.NewPostRepository(), notifications),
		owner:         seedUser(t, db, "owner", models.UserRoleLessor),
		renter:        seedUser(t, db, "renter", models.UserRoleUser),
		other:         seedUser(t, db, "other", models.UserRoleUser),
	}
	f.post = seedPost(t, db, f.owner.ID, models.PostStatusPublished)
	return f
}

func (f *reviewFixture) review(t *testing.T, userID string, rating int) *dto.ReviewNode {
	t.Helper()
	node, err := f.svc.CreateReview(context.Background(), f.db, userID, f.post.ID, &dto.CreateReviewRequest{Rating: rating, Content: "review"})
	require.NoError(t, err)
	return node
}

func (f *reviewFixture) replyToReview(t *testing.T, userID, reviewID string) *dto.ReviewNode {
	t.Helper()
	node, err := f.svc.ReplyToReview(context.Background(), f.db, userID, reviewID, &dto.ReplyRequest{Content: "reply"})
	require.NoError(t, err)
	return node
}

func (f *reviewFixture) replyToReply(t *testing.T, userID, replyID string) *dto.ReviewNode {
	t.Helper()
	node, err := f.svc.ReplyToReply(context.Background(), f.db, userID, replyID, &dto.ReplyRequest{Content: "reply"})
	require.NoError(t, err)
	return node
}

func (f *reviewFixture) unread(t *testing.T, userID string) int64 {
	t.Helper()
	count, err := f.notifications.GetUnreadCount(f.db, userID)
	require.NoError(t, err)
	return count
}

func TestReviewService_CreateReviewRules(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	f.review(t, f.renter.ID, 4)
	assert.Equal(t, int64(1), f.unread(t, f.owner.ID))

	_, err := f.svc.CreateReview(ctx, f.db, f.renter.ID, f.post.ID, &dto.CreateReviewRequest{Rating: 5, Content: "again"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReview)

	_, err = f.svc.CreateReview(ctx, f.db, f.owner.ID, f.post.ID, &dto.CreateReviewRequest{Rating: 5, Content: "mine"})
	assert.ErrorIs(t, err, apperrors.ErrOwnPostReview)

	draft := seedPost(t, f.db, f.owner.ID, models.PostStatusDraft)
	_, err = f.svc.CreateReview(ctx, f.db, f.renter.ID, draft.ID, &dto.CreateReviewRequest{Rating: 5, Content: "draft"})
	assert.ErrorIs(t, err, apperrors.ErrPostNotPublished)
}

func TestReviewService_ReplyTargetKind(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	root := f.review(t, f.renter.ID, 5)
	reply := f.replyToReview(t, f.owner.ID, root.ID)
	assert.Equal(t, root.ID, *reply.ParentID)
	assert.Nil(t, reply.Rating)

	_, err := f.svc.ReplyToReply(ctx, f.db, f.other.ID, root.ID, &dto.ReplyRequest{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrReplyTargetInvalid)

	_, err = f.svc.ReplyToReview(ctx, f.db, f.other.ID, reply.ID, &dto.ReplyRequest{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrReplyTargetInvalid)

	nested := f.replyToReply(t, f.renter.ID, reply.ID)
	assert.Equal(t, f.post.ID, nested.PostID)
}

func TestReviewService_ReplyRejectedOnUnpublishedPost(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	root := f.review(t, f.renter.ID, 3)
	reply := f.replyToReview(t, f.owner.ID, root.ID)
	renterUnread := f.unread(t, f.renter.ID)

	require.NoError(t, f.db.Model(&models.Post{}).Where("id = ?", f.post.ID).Update("status", models.PostStatusDraft).Error)

	_, err := f.svc.ReplyToReview(ctx, f.db, f.other.ID, root.ID, &dto.ReplyRequest{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrPostNotPublished)
	_, err = f.svc.ReplyToReply(ctx, f.db, f.other.ID, reply.ID, &dto.ReplyRequest{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrPostNotPublished)

	// ни узлов, ни уведомлений
	var count int64
	require.NoError(t, f.db.Model(&models.Review{}).Where("post_id = ?", f.post.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, renterUnread, f.unread(t, f.renter.ID))
}

func TestReviewService_ReplyRejectedUnderHiddenAncestor(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	root := f.review(t, f.renter.ID, 5)
	rep := f.replyToReview(t, f.owner.ID, root.ID)
	rep2 := f.replyToReply(t, f.renter.ID, rep.ID)

	require.NoError(t, f.svc.SetHidden(ctx, f.db, rep.ID, true))
	ownerUnread := f.unread(t, f.owner.ID)

	_, err := f.svc.ReplyToReply(ctx, f.db, f.other.ID, rep.ID, &dto.ReplyRequest{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrReplyTargetInvalid)
	_, err = f.svc.ReplyToReply(ctx, f.db, f.owner.ID, rep2.ID, &dto.ReplyRequest{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrReplyTargetInvalid)
	assert.Equal(t, ownerUnread, f.unread(t, f.owner.ID))

	// после снятия скрытия ветка снова принимает ответы
	require.NoError(t, f.svc.SetHidden(ctx, f.db, rep.ID, false))
	f.replyToReply(t, f.other.ID, rep2.ID)
}

func TestReviewService_UpdateRequiresVisibleNode(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	root := f.review(t, f.renter.ID, 5)
	rep := f.replyToReview(t, f.owner.ID, root.ID)
	rep2 := f.replyToReply(t, f.renter.ID, rep.ID)

	content := "edited"
	updated, err := f.svc.UpdateReview(ctx, f.db, f.renter.ID, rep2.ID, &dto.UpdateReviewRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = f.svc.UpdateReview(ctx, f.db, f.other.ID, rep2.ID, &dto.UpdateReviewRequest{Content: &content})
	assert.ErrorIs(t, err, apperrors.ErrNotReviewAuthor)

	require.NoError(t, f.svc.SetHidden(ctx, f.db, rep.ID, true))
	_, err = f.svc.UpdateReview(ctx, f.db, f.renter.ID, rep2.ID, &dto.UpdateReviewRequest{Content: &content})
	assert.ErrorIs(t, err, apperrors.ErrReviewUnavailable)

	rating := 2
	require.NoError(t, f.db.Model(&models.Post{}).Where("id = ?", f.post.ID).Update("status", models.PostStatusHidden).Error)
	_, err = f.svc.UpdateReview(ctx, f.db, f.renter.ID, root.ID, &dto.UpdateReviewRequest{Rating: &rating})
	assert.ErrorIs(t, err, apperrors.ErrPostNotPublished)
}

func TestReviewService_SummaryIgnoresHidden(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	good := f.review(t, f.renter.ID, 5)
	bad := f.review(t, f.other.ID, 2)
	f.replyToReview(t, f.owner.ID, good.ID)

	summary, err := f.svc.GetSummary(ctx, f.db, Viewer{}, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Total)
	assert.InDelta(t, 3.5, summary.Average, 0.0001)

	require.NoError(t, f.svc.SetHidden(ctx, f.db, bad.ID, true))

	summary, err = f.svc.GetSummary(ctx, f.db, Viewer{}, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Total)
	assert.InDelta(t, 5.0, summary.Average, 0.0001)
	assert.Equal(t, int64(0), summary.Histogram[2])

	tree, err := f.svc.GetTree(ctx, f.db, Viewer{}, f.post.ID)
	require.NoError(t, err)
	require.Len(t, tree.Reviews, 1)
	assert.Equal(t, good.ID, tree.Reviews[0].ID)
	assert.Len(t, tree.Reviews[0].Replies, 1)
}

func TestReviewService_DeleteRemovesSubtree(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	root := f.review(t, f.renter.ID, 4)
	rep := f.replyToReview(t, f.owner.ID, root.ID)
	rep2 := f.replyToReply(t, f.renter.ID, rep.ID)
	f.replyToReply(t, f.other.ID, rep2.ID)
	keep := f.review(t, f.other.ID, 3)

	err := f.svc.DeleteReview(ctx, f.db, Viewer{UserID: f.other.ID, Role: models.UserRoleUser}, root.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotReviewAuthor)

	require.NoError(t, f.svc.DeleteReview(ctx, f.db, Viewer{UserID: f.renter.ID, Role: models.UserRoleUser}, root.ID))

	var ids []string
	require.NoError(t, f.db.Model(&models.Review{}).Where("post_id = ?", f.post.ID).Pluck("id", &ids).Error)
	assert.Equal(t, []string{keep.ID}, ids)
}
