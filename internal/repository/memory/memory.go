// Package memory implements the repository interfaces in process memory.
// It mirrors the PostgreSQL semantics (unique usernames and tag names,
// owner-scoped note lookups, cascading link removal) and is safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
)

type link struct {
	noteID, tagID uuid.UUID
}

// Store holds all tables. Use Users, Notes and Tags to obtain repository views.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
	notes map[uuid.UUID]model.Note
	tags  map[uuid.UUID]model.Tag
	links []link // insertion order is association order
	seq   map[uuid.UUID]int64
	next  int64
	now   func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users: make(map[uuid.UUID]model.User),
		notes: make(map[uuid.UUID]model.Note),
		tags:  make(map[uuid.UUID]model.Tag),
		seq:   make(map[uuid.UUID]int64),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the user repository view.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Notes returns the note repository view.
func (s *Store) Notes() *NoteRepo { return &NoteRepo{s: s} }

// Tags returns the tag repository view.
func (s *Store) Tags() *TagRepo { return &TagRepo{s: s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// UserRepo is the in-memory UserRepository.
type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.users {
		if ex.Username == u.Username {
			return errs.ErrAlreadyExists
		}
	}
	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			c := u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

// NoteRepo is the in-memory NoteRepository.
type NoteRepo struct{ s *Store }

var _ repository.NoteRepository = (*NoteRepo)(nil)

func (r *NoteRepo) Create(_ context.Context, n *model.Note, tagNames []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[n.UserID]; !ok {
		return errs.ErrNotFound
	}
	now := r.s.now()
	n.CreatedAt, n.UpdatedAt = now, now

	tags := make([]model.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		t, ok := r.s.tagByName(name)
		if !ok {
			id, err := uuid.NewV4()
			if err != nil {
				return err
			}
			t = model.Tag{ID: id, Name: name}
			r.s.tags[id] = t
		}
		if !r.s.linked(n.ID, t.ID) {
			r.s.links = append(r.s.links, link{noteID: n.ID, tagID: t.ID})
		}
		tags = append(tags, t)
	}
	n.Tags = tags

	stored := *n
	stored.Tags = nil
	r.s.notes[n.ID] = stored
	r.s.next++
	r.s.seq[n.ID] = r.s.next
	return nil
}

func (r *NoteRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Note{}
	for _, n := range r.s.notes {
		if n.UserID == ownerID {
			n.Tags = r.s.tagsOf(n.ID)
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.s.seq[out[i].ID] < r.s.seq[out[j].ID] })
	return out, nil
}

func (r *NoteRepo) Get(_ context.Context, ownerID, noteID uuid.UUID) (*model.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.notes[noteID]
	if !ok || n.UserID != ownerID {
		return nil, errs.ErrNotFound
	}
	n.Tags = r.s.tagsOf(n.ID)
	return &n, nil
}

func (r *NoteRepo) Update(_ context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[noteID]
	if !ok || n.UserID != ownerID {
		return nil, nil
	}
	n.Title, n.Content = upd.Title, upd.Content
	if upd.Locked != nil {
		n.Locked = *upd.Locked
	}
	n.UpdatedAt = r.s.now()
	r.s.notes[noteID] = n
	n.Tags = r.s.tagsOf(n.ID)
	return &n, nil
}

func (r *NoteRepo) Delete(_ context.Context, ownerID, noteID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[noteID]
	if !ok || n.UserID != ownerID {
		return false, nil
	}
	delete(r.s.notes, noteID)
	delete(r.s.seq, noteID)
	r.s.unlink(func(l link) bool { return l.noteID == noteID })
	return true, nil
}

// TagRepo is the in-memory TagRepository.
type TagRepo struct{ s *Store }

var _ repository.TagRepository = (*TagRepo)(nil)

func (r *TagRepo) Create(_ context.Context, t *model.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.tagByName(t.Name); taken {
		return errs.ErrAlreadyExists
	}
	r.s.tags[t.ID] = *t
	return nil
}

func (r *TagRepo) List(context.Context) ([]model.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Tag, 0, len(r.s.tags))
	for _, t := range r.s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TagRepo) Get(_ context.Context, id uuid.UUID) (*model.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tags[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &t, nil
}

func (r *TagRepo) Update(_ context.Context, id uuid.UUID, name string) (*model.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tags[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if other, taken := r.s.tagByName(name); taken && other.ID != id {
		return nil, errs.ErrAlreadyExists
	}
	t.Name = name
	r.s.tags[id] = t
	return &t, nil
}

func (r *TagRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tags[id]; !ok {
		return false, nil
	}
	delete(r.s.tags, id)
	r.s.unlink(func(l link) bool { return l.tagID == id })
	return true, nil
}

// helpers below expect s.mu to be held

func (s *Store) tagByName(name string) (model.Tag, bool) {
	for _, t := range s.tags {
		if t.Name == name {
			return t, true
		}
	}
	return model.Tag{}, false
}

func (s *Store) linked(noteID, tagID uuid.UUID) bool {
	for _, l := range s.links {
		if l.noteID == noteID && l.tagID == tagID {
			return true
		}
	}
	return false
}

func (s *Store) tagsOf(noteID uuid.UUID) []model.Tag {
	out := []model.Tag{}
	for _, l := range s.links {
		if l.noteID == noteID {
			out = append(out, s.tags[l.tagID])
		}
	}
	return out
}

func (s *Store) unlink(match func(link) bool) {
	kept := s.links[:0]
	for _, l := range s.links {
		if !match(l) {
			kept = append(kept, l)
		}
	}
	s.links = kept
}
