package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"rental_backend/internal/cache"
	"rental_backend/internal/models"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TermService - справочники категорий, удобств и особенностей окружения
type TermService interface {
	List(ctx context.Context, db *gorm.DB, kind models.TermKind) ([]dto.TermResponse, error)
	Create(ctx context.Context, db *gorm.DB, kind models.TermKind, req *dto.TermRequest) (*dto.TermResponse, error)
	Update(ctx context.Context, db *gorm.DB, kind models.TermKind, id uint, req *dto.TermRequest) (*dto.TermResponse, error)
	Delete(ctx context.Context, db *gorm.DB, kind models.TermKind, id uint) error
}

type termService struct {
	termRepo repositories.TermRepository
	cache    cache.Cache
	ttl      time.Duration
}

func NewTermService(termRepo repositories.TermRepository, c cache.Cache, ttl time.Duration) TermService {
	return &termService{
		termRepo: termRepo,
		cache:    c,
		ttl:      ttl,
	}
}

func (s *termService) List(ctx context.Context, db *gorm.DB, kind models.TermKind) ([]dto.TermResponse, error) {
	if kind.Table() == "" {
		return nil, handleTermError(repositories.ErrUnknownTermKind)
	}
	return cachedQuery(ctx, s.cache, s.ttl, cache.NamespaceTerms, map[string]string{"kind": string(kind)},
		func() ([]dto.TermResponse, error) {
			terms, err := s.termRepo.List(db, kind)
			if err != nil {
				return nil, handleTermError(err)
			}
			items := make([]dto.TermResponse, 0, len(terms))
			for i := range terms {
				items = append(items, *dto.NewTermResponse(&terms[i]))
			}
			return items, nil
		})
}

func (s *termService) Create(ctx context.Context, db *gorm.DB, kind models.TermKind, req *dto.TermRequest) (*dto.TermResponse, error) {
	term := &models.Term{
		Name: strings.TrimSpace(req.Name),
		Slug: strings.ToLower(strings.TrimSpace(req.Slug)),
		Icon: req.Icon,
	}
	if err := s.termRepo.Create(db, kind, term); err != nil {
		return nil, handleTermError(err)
	}
	s.invalidate(ctx)
	return dto.NewTermResponse(term), nil
}

func (s *termService) Update(ctx context.Context, db *gorm.DB, kind models.TermKind, id uint, req *dto.TermRequest) (*dto.TermResponse, error) {
	term := &models.Term{
		DictionaryModel: models.DictionaryModel{ID: id},
		Name:            strings.TrimSpace(req.Name),
		Slug:            strings.ToLower(strings.TrimSpace(req.Slug)),
		Icon:            req.Icon,
	}
	if err := s.termRepo.Update(db, kind, term); err != nil {
		return nil, handleTermError(err)
	}
	s.invalidate(ctx)

	updated, err := s.termRepo.FindByID(db, kind, id)
	if err != nil {
		return nil, handleTermError(err)
	}
	return dto.NewTermResponse(updated), nil
}

func (s *termService) Delete(ctx context.Context, db *gorm.DB, kind models.TermKind, id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.termRepo.Delete(tx, kind, id); err != nil {
		return handleTermError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	s.invalidate(ctx)
	return nil
}

// Термины встроены в ответы объявлений, поэтому сбрасываем и кэш списка объявлений
func (s *termService) invalidate(ctx context.Context) {
	invalidate(ctx, s.cache, cache.NamespaceTerms)
	invalidate(ctx, s.cache, cache.NamespacePosts)
}

func handleTermError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTermNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrTermExists):
		return apperrors.ErrAlreadyExists(err)
	case errors.Is(err, repositories.ErrTermInUse):
		return apperrors.ErrConflict(err, "term", "Category is used by posts")
	case errors.Is(err, repositories.ErrUnknownTermKind):
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
