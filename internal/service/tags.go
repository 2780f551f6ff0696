package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
)

// TagService defines CRUD over global tags.
type TagService interface {
	Create(ctx context.Context, name string) (model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (model.Tag, error)
	Update(ctx context.Context, id uuid.UUID, name string) (model.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type TagServiceImpl struct {
	repo repository.TagRepository
}

var _ TagService = (*TagServiceImpl)(nil)

// NewTagService constructs TagService.
func NewTagService(repo repository.TagRepository) *TagServiceImpl {
	return &TagServiceImpl{repo: repo}
}

// Create stores a new tag. Duplicate names surface as errs.ErrAlreadyExists from storage.
func (s *TagServiceImpl) Create(ctx context.Context, name string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, fmt.Errorf("%w: empty tag name", errs.ErrInvalidArgument)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Tag{}, err
	}
	t := model.Tag{ID: id, Name: name}
	if err := s.repo.Create(ctx, &t); err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

// List returns every tag.
func (s *TagServiceImpl) List(ctx context.Context) ([]model.Tag, error) {
	return s.repo.List(ctx)
}

// Get returns a tag or errs.ErrNotFound.
func (s *TagServiceImpl) Get(ctx context.Context, id uuid.UUID) (model.Tag, error) {
	if id == uuid.Nil {
		return model.Tag{}, errs.ErrNotFound
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Tag{}, err
	}
	return *t, nil
}

// Update renames a tag.
func (s *TagServiceImpl) Update(ctx context.Context, id uuid.UUID, name string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, fmt.Errorf("%w: empty tag name", errs.ErrInvalidArgument)
	}
	if id == uuid.Nil {
		return model.Tag{}, errs.ErrNotFound
	}
	t, err := s.repo.Update(ctx, id, name)
	if err != nil {
		return model.Tag{}, err
	}
	return *t, nil
}

// Delete removes a tag and reports whether it existed.
func (s *TagServiceImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	return s.repo.Delete(ctx, id)
}
