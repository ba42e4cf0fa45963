package services

import (
	"context"
	"errors"
	"strings"

	"rental_backend/internal/auth"
	"rental_backend/internal/logger"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	// CreateReview - отзыв верхнего уровня с оценкой, один на пользователя и объявление
	CreateReview(ctx context.Context, db *gorm.DB, userID, postID string, req *dto.CreateReviewRequest) (*dto.ReviewNode, error)
	// ReplyToReview - ответ на видимый отзыв верхнего уровня опубликованного объявления
	ReplyToReview(ctx context.Context, db *gorm.DB, userID, reviewID string, req *dto.ReplyRequest) (*dto.ReviewNode, error)
	// ReplyToReply - ответ на видимый ответ
	ReplyToReply(ctx context.Context, db *gorm.DB, userID, replyID string, req *dto.ReplyRequest) (*dto.ReviewNode, error)
	UpdateReview(ctx context.Context, db *gorm.DB, userID, reviewID string, req *dto.UpdateReviewRequest) (*dto.ReviewNode, error)
	// DeleteReview удаляет узел вместе с поддеревом. Автор или модератор.
	DeleteReview(ctx context.Context, db *gorm.DB, viewer Viewer, reviewID string) error

	GetTree(ctx context.Context, db *gorm.DB, viewer Viewer, postID string) (*dto.ReviewTreeResponse, error)
	ListReviews(ctx context.Context, db *gorm.DB, viewer Viewer, postID string, query dto.ReviewListQuery) (*dto.ReviewListResponse, error)
	GetSummary(ctx context.Context, db *gorm.DB, viewer Viewer, postID string) (*dto.RatingSummary, error)

	// Admin
	SetHidden(ctx context.Context, db *gorm.DB, reviewID string, hidden bool) error
	AdminListReviews(ctx context.Context, db *gorm.DB, query dto.AdminReviewQuery) (*dto.ReviewListResponse, error)
}

type reviewService struct {
	reviewRepo          repositories.ReviewRepository
	postRepo            repositories.PostRepository
	notificationService NotificationService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	postRepo repositories.PostRepository,
	notificationService NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:          reviewRepo,
		postRepo:            postRepo,
		notificationService: notificationService,
	}
}

// ---------------- Review Operations ----------------

func (s *reviewService) CreateReview(ctx context.Context, db *gorm.DB, userID, postID string, req *dto.CreateReviewRequest) (*dto.ReviewNode, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	post, err := s.postRepo.FindByID(tx, postID)
	if err != nil {
		return nil, handlePostError(err)
	}
	if !post.IsPublished() {
		return nil, apperrors.ErrPostNotPublished
	}
	if post.IsOwnedBy(userID) {
		return nil, apperrors.ErrOwnPostReview
	}

	if _, err := s.reviewRepo.FindTopLevelByPostAndUser(tx, postID, userID); err == nil {
		return nil, apperrors.ErrDuplicateReview
	} else if !errors.Is(err, repositories.ErrReviewNotFound) {
		return nil, apperrors.InternalError(err)
	}

	rating := req.Rating
	review := &models.Review{
		PostID:  postID,
		UserID:  userID,
		Rating:  &rating,
		Content: strings.TrimSpace(req.Content),
	}
	if err := s.reviewRepo.Create(tx, review); err != nil {
		return nil, handleReviewError(err)
	}

	if err := s.notificationService.Notify(tx, post.OwnerID, models.NotificationNewReview,
		"New review", "Your post \""+post.Title+"\" received a new review",
		map[string]interface{}{"post_id": post.ID, "review_id": review.ID, "rating": rating},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Review created", "review_id", review.ID, "post_id", postID, "rating", rating)
	return s.loadNode(db, review.ID)
}

func (s *reviewService) ReplyToReview(ctx context.Context, db *gorm.DB, userID, reviewID string, req *dto.ReplyRequest) (*dto.ReviewNode, error) {
	return s.reply(ctx, db, userID, reviewID, req, true)
}

func (s *reviewService) ReplyToReply(ctx context.Context, db *gorm.DB, userID, replyID string, req *dto.ReplyRequest) (*dto.ReviewNode, error) {
	return s.reply(ctx, db, userID, replyID, req, false)
}

// reply создает ответ. Ответ наследует post_id цели, поэтому цепочка родителей
// всегда остается в пределах одного объявления.
func (s *reviewService) reply(ctx context.Context, db *gorm.DB, userID, targetID string, req *dto.ReplyRequest, targetTopLevel bool) (*dto.ReviewNode, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	target, err := s.reviewRepo.FindByID(tx, targetID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	if target.IsTopLevel() != targetTopLevel {
		return nil, apperrors.ErrReplyTargetInvalid
	}
	if err := s.requireVisibleNode(tx, target, apperrors.ErrReplyTargetInvalid); err != nil {
		return nil, err
	}

	reply := &models.Review{
		PostID:   target.PostID,
		UserID:   userID,
		ParentID: &target.ID,
		Content:  strings.TrimSpace(req.Content),
	}
	if err := s.reviewRepo.Create(tx, reply); err != nil {
		return nil, handleReviewError(err)
	}

	if target.UserID != userID {
		if err := s.notificationService.Notify(tx, target.UserID, models.NotificationReviewReply,
			"New reply", "Someone replied to your review",
			map[string]interface{}{"post_id": target.PostID, "review_id": target.ID, "reply_id": reply.ID},
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Reply created", "reply_id", reply.ID, "parent_id", target.ID, "post_id", target.PostID)
	return s.loadNode(db, reply.ID)
}

func (s *reviewService) UpdateReview(ctx context.Context, db *gorm.DB, userID, reviewID string, req *dto.UpdateReviewRequest) (*dto.ReviewNode, error) {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	if review.UserID != userID {
		return nil, apperrors.ErrNotReviewAuthor
	}
	if err := s.requireVisibleNode(db, review, apperrors.ErrReviewUnavailable); err != nil {
		return nil, err
	}

	if req.Rating != nil {
		if !review.IsTopLevel() {
			return nil, apperrors.ErrRatingOnReply
		}
		rating := *req.Rating
		review.Rating = &rating
	}
	if req.Content != nil {
		review.Content = strings.TrimSpace(*req.Content)
	}

	if err := s.reviewRepo.Update(db, review); err != nil {
		return nil, handleReviewError(err)
	}
	return s.loadNode(db, review.ID)
}

func (s *reviewService) DeleteReview(ctx context.Context, db *gorm.DB, viewer Viewer, reviewID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	review, err := s.reviewRepo.FindByID(tx, reviewID)
	if err != nil {
		return handleReviewError(err)
	}
	if review.UserID != viewer.UserID && !auth.HasPermission(viewer.Role, auth.PermReviewsModerate) {
		return apperrors.ErrNotReviewAuthor
	}

	all, err := s.reviewRepo.FindAllByPost(tx, review.PostID, true)
	if err != nil {
		return apperrors.InternalError(err)
	}
	ids := collectSubtreeIDs(review.ID, all)

	deleted, err := s.reviewRepo.DeleteByIDs(tx, ids)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Review subtree deleted", "review_id", review.ID, "deleted", deleted, "by", viewer.UserID)
	return nil
}

// ---------------- Read Operations ----------------

func (s *reviewService) GetTree(ctx context.Context, db *gorm.DB, viewer Viewer, postID string) (*dto.ReviewTreeResponse, error) {
	if _, err := s.findVisiblePost(db, viewer, postID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.FindAllByPost(db, postID, false)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	roots, _ := buildReviewTree(postID, reviews)

	summary, err := s.summary(db, postID)
	if err != nil {
		return nil, err
	}

	return &dto.ReviewTreeResponse{
		PostID:  postID,
		Summary: *summary,
		Reviews: roots,
	}, nil
}

func (s *reviewService) ListReviews(ctx context.Context, db *gorm.DB, viewer Viewer, postID string, query dto.ReviewListQuery) (*dto.ReviewListResponse, error) {
	if _, err := s.findVisiblePost(db, viewer, postID); err != nil {
		return nil, err
	}

	page, total, err := s.reviewRepo.FindVisibleTopLevel(db, postID, query.Rating, query.Page, query.PageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	all, err := s.reviewRepo.FindAllByPost(db, postID, false)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	_, index := buildReviewTree(postID, all)

	items := make([]*dto.ReviewNode, 0, len(page))
	for i := range page {
		if node, ok := index[page[i].ID]; ok {
			items = append(items, node)
		}
	}

	return &dto.ReviewListResponse{
		Reviews:    items,
		Pagination: dto.NewPagination(total, query.Page, query.PageSize),
	}, nil
}

func (s *reviewService) GetSummary(ctx context.Context, db *gorm.DB, viewer Viewer, postID string) (*dto.RatingSummary, error) {
	if _, err := s.findVisiblePost(db, viewer, postID); err != nil {
		return nil, err
	}
	return s.summary(db, postID)
}

// ---------------- Admin ----------------

func (s *reviewService) SetHidden(ctx context.Context, db *gorm.DB, reviewID string, hidden bool) error {
	if err := s.reviewRepo.SetHidden(db, reviewID, hidden); err != nil {
		return handleReviewError(err)
	}
	logger.CtxInfo(ctx, "Review visibility changed", "review_id", reviewID, "hidden", hidden)
	return nil
}

func (s *reviewService) AdminListReviews(ctx context.Context, db *gorm.DB, query dto.AdminReviewQuery) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindWithCriteria(db, repositories.ReviewCriteria{
		PostID:   query.PostID,
		UserID:   query.UserID,
		IsHidden: query.IsHidden,
		Rating:   query.Rating,
		TopLevel: query.TopLevel,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ReviewNode, 0, len(reviews))
	for i := range reviews {
		items = append(items, newReviewNode(&reviews[i]))
	}
	return &dto.ReviewListResponse{
		Reviews:    items,
		Pagination: dto.NewPagination(total, query.Page, query.PageSize),
	}, nil
}

// ---------------- helpers ----------------

func (s *reviewService) findVisiblePost(db *gorm.DB, viewer Viewer, postID string) (*models.Post, error) {
	post, err := s.postRepo.FindByID(db, postID)
	if err != nil {
		return nil, handlePostError(err)
	}
	if !post.IsPublished() && (viewer.UserID == "" || !auth.CanManagePost(viewer.Role, viewer.UserID, post)) {
		return nil, apperrors.ErrNotFound(repositories.ErrPostNotFound)
	}
	return post, nil
}

// requireVisibleNode пропускает узел только на опубликованном объявлении и только
// если он достижим в публичном дереве: скрытый предок закрывает все поддерево.
func (s *reviewService) requireVisibleNode(db *gorm.DB, node *models.Review, hiddenErr error) error {
	post, err := s.postRepo.FindByID(db, node.PostID)
	if err != nil {
		return handlePostError(err)
	}
	if !post.IsPublished() {
		return apperrors.ErrPostNotPublished
	}

	all, err := s.reviewRepo.FindAllByPost(db, node.PostID, false)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if _, index := buildReviewTree(node.PostID, all); index[node.ID] == nil {
		return hiddenErr
	}
	return nil
}

func (s *reviewService) summary(db *gorm.DB, postID string) (*dto.RatingSummary, error) {
	counts, err := s.reviewRepo.RatingCounts(db, postID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	summary := summarizeRatings(counts)
	return &summary, nil
}

func (s *reviewService) loadNode(db *gorm.DB, reviewID string) (*dto.ReviewNode, error) {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	return newReviewNode(review), nil
}

func handleReviewError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrReviewNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrReviewAlreadyExists):
		return apperrors.ErrDuplicateReview
	}
	return apperrors.InternalError(err)
}
