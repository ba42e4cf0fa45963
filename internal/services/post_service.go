package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
	"time"

	"rental_backend/internal/auth"
	"rental_backend/internal/cache"
	"rental_backend/internal/imageprocessor"
	"rental_backend/internal/logger"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, db *gorm.DB, ownerID string, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, db *gorm.DB, viewer Viewer, postID string) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, db *gorm.DB, viewer Viewer, postID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	UpdatePostStatus(ctx context.Context, db *gorm.DB, viewer Viewer, postID string, status models.PostStatus) error
	DeletePost(ctx context.Context, db *gorm.DB, viewer Viewer, postID string) error

	// ListPublished - публичный каталог, результат кэшируется
	ListPublished(ctx context.Context, db *gorm.DB, query dto.PostListQuery) (*dto.PostListResponse, error)
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID string, query dto.PostListQuery) (*dto.PostListResponse, error)
	ListAll(ctx context.Context, db *gorm.DB, query dto.PostListQuery) (*dto.PostListResponse, error)

	AddImages(ctx context.Context, db *gorm.DB, viewer Viewer, postID string, files []*multipart.FileHeader) ([]dto.PostImageResponse, error)
	DeleteImage(ctx context.Context, db *gorm.DB, viewer Viewer, postID, imageID string) error
}

// Viewer - кто выполняет запрос. Пустой UserID - гость.
type Viewer struct {
	UserID string
	Role   models.UserRole
}

func (v Viewer) IsAdmin() bool {
	return v.Role == models.UserRoleAdmin
}

type PostServiceConfig struct {
	MaxImages int
	CacheTTL  time.Duration
}

type postService struct {
	postRepo      repositories.PostRepository
	termRepo      repositories.TermRepository
	locationRepo  repositories.LocationRepository
	reviewRepo    repositories.ReviewRepository
	uploadService UploadService
	cache         cache.Cache
	config        PostServiceConfig
}

func NewPostService(
	postRepo repositories.PostRepository,
	termRepo repositories.TermRepository,
	locationRepo repositories.LocationRepository,
	reviewRepo repositories.ReviewRepository,
	uploadService UploadService,
	c cache.Cache,
	config PostServiceConfig,
) PostService {
	if config.MaxImages <= 0 {
		config.MaxImages = 10
	}
	return &postService{
		postRepo:      postRepo,
		termRepo:      termRepo,
		locationRepo:  locationRepo,
		reviewRepo:    reviewRepo,
		uploadService: uploadService,
		cache:         c,
		config:        config,
	}
}

func (s *postService) CreatePost(ctx context.Context, db *gorm.DB, ownerID string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	status := models.PostStatusDraft
	if req.Status != "" {
		status = models.PostStatus(req.Status)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.validateReferences(tx, req.CategoryID, req.ProvinceID, req.DistrictID, req.WardID); err != nil {
		return nil, err
	}
	amenities, err := s.termRepo.FindAmenities(tx, req.AmenityIDs)
	if err != nil {
		return nil, handleTermRefError(err, "amenity_ids")
	}
	features, err := s.termRepo.FindEnvironmentFeatures(tx, req.EnvironmentIDs)
	if err != nil {
		return nil, handleTermRefError(err, "environment_ids")
	}

	post := &models.Post{
		OwnerID:     ownerID,
		CategoryID:  req.CategoryID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Area:        req.Area,
		Address:     strings.TrimSpace(req.Address),
		ProvinceID:  req.ProvinceID,
		DistrictID:  req.DistrictID,
		WardID:      req.WardID,
		Status:      status,
	}
	if err := s.postRepo.Create(tx, post); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.postRepo.ReplaceAmenities(tx, post, amenities); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.postRepo.ReplaceEnvironmentFeatures(tx, post, features); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	invalidate(ctx, s.cache, cache.NamespacePosts)

	logger.CtxInfo(ctx, "Post created", "post_id", post.ID, "owner_id", ownerID, "status", status)
	return s.loadPostResponse(db, post.ID, false)
}

func (s *postService) GetPost(ctx context.Context, db *gorm.DB, viewer Viewer, postID string) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByIDWithDetails(db, postID)
	if err != nil {
		return nil, handlePostError(err)
	}

	// Черновики и скрытые объявления видны только владельцу и администратору
	canManage := viewer.UserID != "" && auth.CanManagePost(viewer.Role, viewer.UserID, post)
	if !post.IsPublished() && !canManage {
		return nil, apperrors.ErrNotFound(repositories.ErrPostNotFound)
	}

	if post.IsPublished() && !post.IsOwnedBy(viewer.UserID) {
		if err := s.postRepo.IncrementViewCount(db, post.ID); err != nil {
			logger.CtxWarn(ctx, "Failed to increment view count", "post_id", post.ID, "error", err)
		} else {
			post.ViewCount++
		}
	}

	resp := dto.NewPostResponse(post)
	summary, err := s.ratingSummary(db, post.ID)
	if err != nil {
		return nil, err
	}
	resp.Rating = summary
	return &resp, nil
}

func (s *postService) UpdatePost(ctx context.Context, db *gorm.DB, viewer Viewer, postID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	post, err := s.findManageablePost(tx, viewer, postID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		post.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Price != nil {
		post.Price = *req.Price
	}
	if req.Area != nil {
		post.Area = *req.Area
	}
	if req.Address != nil {
		post.Address = strings.TrimSpace(*req.Address)
	}
	if req.ProvinceID != nil {
		post.ProvinceID = *req.ProvinceID
	}
	if req.DistrictID != nil {
		post.DistrictID = *req.DistrictID
	}
	if req.WardID != nil {
		post.WardID = req.WardID
	} else if req.DistrictID != nil {
		// старый квартал не принадлежит новому району
		post.WardID = nil
	}

	if err := s.validateReferences(tx, post.CategoryID, post.ProvinceID, post.DistrictID, post.WardID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(tx, post); err != nil {
		return nil, handlePostError(err)
	}

	if req.AmenityIDs != nil {
		amenities, err := s.termRepo.FindAmenities(tx, *req.AmenityIDs)
		if err != nil {
			return nil, handleTermRefError(err, "amenity_ids")
		}
		if err := s.postRepo.ReplaceAmenities(tx, post, amenities); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	if req.EnvironmentIDs != nil {
		features, err := s.termRepo.FindEnvironmentFeatures(tx, *req.EnvironmentIDs)
		if err != nil {
			return nil, handleTermRefError(err, "environment_ids")
		}
		if err := s.postRepo.ReplaceEnvironmentFeatures(tx, post, features); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	invalidate(ctx, s.cache, cache.NamespacePosts)

	return s.loadPostResponse(db, post.ID, true)
}

func (s *postService) UpdatePostStatus(ctx context.Context, db *gorm.DB, viewer Viewer, postID string, status models.PostStatus) error {
	if !status.IsValid() {
		return apperrors.ErrInvalidOperation("post", "Unknown post status")
	}

	post, err := s.findManageablePost(db, viewer, postID)
	if err != nil {
		return err
	}
	if post.Status == status {
		return nil
	}

	if err := s.postRepo.UpdateStatus(db, post.ID, status); err != nil {
		return handlePostError(err)
	}
	invalidate(ctx, s.cache, cache.NamespacePosts)

	logger.CtxInfo(ctx, "Post status changed", "post_id", post.ID, "from", post.Status, "to", status)
	return nil
}

func (s *postService) DeletePost(ctx context.Context, db *gorm.DB, viewer Viewer, postID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	post, err := s.findManageablePost(tx, viewer, postID)
	if err != nil {
		return err
	}

	images, err := s.postRepo.ListImages(tx, post.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.postRepo.Delete(tx, post.ID); err != nil {
		return handlePostError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	// Файлы удаляем только после успешного коммита
	for _, img := range images {
		s.uploadService.DeleteObjects(ctx, img.StorageKey, img.ThumbnailKey)
	}
	invalidate(ctx, s.cache, cache.NamespacePosts)

	logger.CtxInfo(ctx, "Post deleted", "post_id", post.ID, "by", viewer.UserID, "images", len(images))
	return nil
}

func (s *postService) ListPublished(ctx context.Context, db *gorm.DB, query dto.PostListQuery) (*dto.PostListResponse, error) {
	query.Status = string(models.PostStatusPublished)
	return cachedQuery(ctx, s.cache, s.config.CacheTTL, cache.NamespacePosts, postQueryParams(query),
		func() (*dto.PostListResponse, error) {
			return s.list(db, query, "")
		})
}

func (s *postService) ListByOwner(ctx context.Context, db *gorm.DB, ownerID string, query dto.PostListQuery) (*dto.PostListResponse, error) {
	return s.list(db, query, ownerID)
}

func (s *postService) ListAll(ctx context.Context, db *gorm.DB, query dto.PostListQuery) (*dto.PostListResponse, error) {
	return s.list(db, query, "")
}

func (s *postService) list(db *gorm.DB, query dto.PostListQuery, ownerID string) (*dto.PostListResponse, error) {
	posts, total, err := s.postRepo.List(db, repositories.PostFilter{
		Keyword:        query.Keyword,
		CategoryID:     query.CategoryID,
		ProvinceID:     query.ProvinceID,
		DistrictID:     query.DistrictID,
		WardID:         query.WardID,
		PriceMin:       query.PriceMin,
		PriceMax:       query.PriceMax,
		AreaMin:        query.AreaMin,
		AreaMax:        query.AreaMax,
		AmenityIDs:     query.AmenityIDs,
		EnvironmentIDs: query.EnvironmentIDs,
		Status:         models.PostStatus(query.Status),
		OwnerID:        ownerID,
		Sort:           query.Sort,
		Page:           query.Page,
		PageSize:       query.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, dto.NewPostResponse(&posts[i]))
	}
	return &dto.PostListResponse{
		Posts:      items,
		Pagination: dto.NewPagination(total, query.Page, query.PageSize),
	}, nil
}

func (s *postService) AddImages(ctx context.Context, db *gorm.DB, viewer Viewer, postID string, files []*multipart.FileHeader) ([]dto.PostImageResponse, error) {
	if len(files) == 0 {
		return nil, apperrors.ValidationError(map[string]string{"files": "at least one file is required"})
	}

	post, err := s.findManageablePost(db, viewer, postID)
	if err != nil {
		return nil, err
	}

	existing, err := s.postRepo.CountImages(db, post.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if int(existing)+len(files) > s.config.MaxImages {
		return nil, apperrors.ErrTooManyImages.WithDetails(map[string]int{
			"max":      s.config.MaxImages,
			"existing": int(existing),
		})
	}

	// Сначала файлы, затем записи в одной транзакции. При ошибке загруженное удаляется.
	var uploaded []*UploadedImage
	cleanup := func() {
		for _, u := range uploaded {
			s.uploadService.DeleteObjects(ctx, u.Key, u.ThumbnailKey)
		}
	}

	for _, file := range files {
		u, err := s.uploadService.UploadImage(ctx, file, ImageUploadRequest{
			Folder:        "posts/" + post.ID,
			Size:          imageprocessor.SizeGallery,
			WithThumbnail: true,
		})
		if err != nil {
			cleanup()
			return nil, err
		}
		uploaded = append(uploaded, u)
	}

	tx := db.Begin()
	if tx.Error != nil {
		cleanup()
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	images := make([]models.PostImage, 0, len(uploaded))
	for i, u := range uploaded {
		img := models.PostImage{
			PostID:       post.ID,
			URL:          u.URL,
			ThumbnailURL: u.ThumbnailURL,
			StorageKey:   u.Key,
			ThumbnailKey: u.ThumbnailKey,
			MimeType:     u.MimeType,
			Size:         u.Size,
			SortOrder:    int(existing) + i,
		}
		if err := s.postRepo.AddImage(tx, &img); err != nil {
			cleanup()
			return nil, apperrors.InternalError(err)
		}
		images = append(images, img)
	}
	if err := tx.Commit().Error; err != nil {
		cleanup()
		return nil, apperrors.InternalError(err)
	}
	invalidate(ctx, s.cache, cache.NamespacePosts)

	resp := make([]dto.PostImageResponse, 0, len(images))
	for i := range images {
		resp = append(resp, dto.NewPostImageResponse(&images[i]))
	}
	return resp, nil
}

func (s *postService) DeleteImage(ctx context.Context, db *gorm.DB, viewer Viewer, postID, imageID string) error {
	post, err := s.findManageablePost(db, viewer, postID)
	if err != nil {
		return err
	}

	image, err := s.postRepo.FindImage(db, post.ID, imageID)
	if err != nil {
		return handlePostError(err)
	}
	if err := s.postRepo.DeleteImage(db, image.ID); err != nil {
		return handlePostError(err)
	}

	s.uploadService.DeleteObjects(ctx, image.StorageKey, image.ThumbnailKey)
	invalidate(ctx, s.cache, cache.NamespacePosts)
	return nil
}

// ---------------- helpers ----------------

func (s *postService) findManageablePost(db *gorm.DB, viewer Viewer, postID string) (*models.Post, error) {
	post, err := s.postRepo.FindByID(db, postID)
	if err != nil {
		return nil, handlePostError(err)
	}
	if !auth.CanManagePost(viewer.Role, viewer.UserID, post) {
		return nil, apperrors.ErrNotPostOwner
	}
	return post, nil
}

func (s *postService) validateReferences(db *gorm.DB, categoryID, provinceID, districtID uint, wardID *uint) error {
	if _, err := s.termRepo.FindByID(db, models.TermKindCategory, categoryID); err != nil {
		return handleTermRefError(err, "category_id")
	}
	if err := s.locationRepo.ValidateHierarchy(db, provinceID, districtID, wardID); err != nil {
		return handleLocationError(err)
	}
	return nil
}

func (s *postService) loadPostResponse(db *gorm.DB, postID string, withRating bool) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByIDWithDetails(db, postID)
	if err != nil {
		return nil, handlePostError(err)
	}
	resp := dto.NewPostResponse(post)
	if withRating {
		summary, err := s.ratingSummary(db, postID)
		if err != nil {
			return nil, err
		}
		resp.Rating = summary
	}
	return &resp, nil
}

func (s *postService) ratingSummary(db *gorm.DB, postID string) (*dto.RatingSummary, error) {
	counts, err := s.reviewRepo.RatingCounts(db, postID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	summary := summarizeRatings(counts)
	return &summary, nil
}

// postQueryParams - параметры запроса как ключ кэша
func postQueryParams(q dto.PostListQuery) map[string]string {
	params := map[string]string{
		"keyword": strings.ToLower(strings.TrimSpace(q.Keyword)),
		"sort":    q.Sort,
		"status":  q.Status,
		"page":    strconv.Itoa(q.Page),
		"size":    strconv.Itoa(q.PageSize),
	}
	setUint := func(key string, v uint) {
		if v != 0 {
			params[key] = strconv.FormatUint(uint64(v), 10)
		}
	}
	setFloat := func(key string, v *float64) {
		if v != nil {
			params[key] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}
	setIDs := func(key string, ids []uint) {
		if len(ids) == 0 {
			return
		}
		sorted := append([]uint(nil), ids...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		parts := make([]string, len(sorted))
		for i, id := range sorted {
			parts[i] = strconv.FormatUint(uint64(id), 10)
		}
		params[key] = strings.Join(parts, ",")
	}

	setUint("category_id", q.CategoryID)
	setUint("province_id", q.ProvinceID)
	setUint("district_id", q.DistrictID)
	setUint("ward_id", q.WardID)
	setFloat("price_min", q.PriceMin)
	setFloat("price_max", q.PriceMax)
	setFloat("area_min", q.AreaMin)
	setFloat("area_max", q.AreaMax)
	setIDs("amenity_ids", q.AmenityIDs)
	setIDs("environment_ids", q.EnvironmentIDs)
	return params
}

func handlePostError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPostNotFound), errors.Is(err, repositories.ErrPostImageNotFound):
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}

// handleTermRefError - ссылка на несуществующий справочник в теле запроса это ошибка валидации, а не 404
func handleTermRefError(err error, field string) error {
	if errors.Is(err, repositories.ErrTermNotFound) {
		return apperrors.ValidationError(map[string]string{field: fmt.Sprintf("%s references unknown item", field)})
	}
	return apperrors.InternalError(err)
}
