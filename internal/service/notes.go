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

// NoteService defines owner-scoped operations over notes.
type NoteService interface {
	// Create stores a note for owner, creating missing tags.
	Create(ctx context.Context, owner model.Identity, in model.NewNote) (model.Note, error)
	// List returns all notes of owner.
	List(ctx context.Context, owner model.Identity) ([]model.Note, error)
	// Get returns a single note or errs.ErrNotFound.
	Get(ctx context.Context, owner model.Identity, id uuid.UUID) (model.Note, error)
	// Update overwrites a note; nil means nothing was updated.
	Update(ctx context.Context, owner model.Identity, id uuid.UUID, upd model.NoteUpdate) (*model.Note, error)
	// Delete removes a note and reports whether it existed.
	Delete(ctx context.Context, owner model.Identity, id uuid.UUID) (bool, error)
}

type NoteServiceImpl struct {
	repo repository.NoteRepository
}

var _ NoteService = (*NoteServiceImpl)(nil)

// NewNoteService constructs NoteService.
func NewNoteService(repo repository.NoteRepository) *NoteServiceImpl {
	return &NoteServiceImpl{repo: repo}
}

// Create validates input and delegates the transactional insert to the repository.
func (s *NoteServiceImpl) Create(ctx context.Context, owner model.Identity, in model.NewNote) (model.Note, error) {
	if owner.ID == uuid.Nil {
		return model.Note{}, fmt.Errorf("%w: empty owner", errs.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.Note{}, fmt.Errorf("%w: empty title", errs.ErrInvalidArgument)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Note{}, err
	}
	n := &model.Note{
		ID:      id,
		UserID:  owner.ID,
		Title:   in.Title,
		Content: in.Content,
		Locked:  in.Locked,
	}
	if err := s.repo.Create(ctx, n, NormalizeTagNames(in.TagNames)); err != nil {
		return model.Note{}, err
	}
	return *n, nil
}

// List returns all notes owned by owner.
func (s *NoteServiceImpl) List(ctx context.Context, owner model.Identity) ([]model.Note, error) {
	if owner.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty owner", errs.ErrInvalidArgument)
	}
	return s.repo.ListByOwner(ctx, owner.ID)
}

// Get fetches a note by id; foreign notes are reported as not found.
func (s *NoteServiceImpl) Get(ctx context.Context, owner model.Identity, id uuid.UUID) (model.Note, error) {
	if owner.ID == uuid.Nil || id == uuid.Nil {
		return model.Note{}, errs.ErrNotFound
	}
	n, err := s.repo.Get(ctx, owner.ID, id)
	if err != nil {
		return model.Note{}, err
	}
	return *n, nil
}

// Update overwrites title/content (and locked when provided).
func (s *NoteServiceImpl) Update(ctx context.Context, owner model.Identity, id uuid.UUID, upd model.NoteUpdate) (*model.Note, error) {
	if strings.TrimSpace(upd.Title) == "" {
		return nil, fmt.Errorf("%w: empty title", errs.ErrInvalidArgument)
	}
	if owner.ID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	return s.repo.Update(ctx, owner.ID, id, upd)
}

// Delete removes a note; deleting a missing note reports false.
func (s *NoteServiceImpl) Delete(ctx context.Context, owner model.Identity, id uuid.UUID) (bool, error) {
	if owner.ID == uuid.Nil || id == uuid.Nil {
		return false, nil
	}
	return s.repo.Delete(ctx, owner.ID, id)
}

// NormalizeTagNames trims names, drops empties and collapses duplicates, keeping first-seen order.
func NormalizeTagNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
