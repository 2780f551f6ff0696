package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
)

func newUser(t *testing.T, s *Store, username string) model.User {
	t.Helper()
	u := model.User{ID: uuid.Must(uuid.NewV4()), Username: username, Name: username}
	require.NoError(t, s.Users().Create(context.Background(), &u))
	return u
}

func TestUsers_UniqueUsername(t *testing.T) {
	t.Parallel()
	s := New()
	u := newUser(t, s, "alice")
	require.False(t, u.CreatedAt.IsZero())

	dup := model.User{ID: uuid.Must(uuid.NewV4()), Username: "alice"}
	require.ErrorIs(t, s.Users().Create(context.Background(), &dup), errs.ErrAlreadyExists)

	got, err := s.Users().GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetByID(context.Background(), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNotes_CreateReusesAndCreatesTags(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice")
	work := model.Tag{ID: uuid.Must(uuid.NewV4()), Name: "work"}
	require.NoError(t, s.Tags().Create(ctx, &work))

	n := model.Note{ID: uuid.Must(uuid.NewV4()), UserID: u.ID, Title: "t"}
	require.NoError(t, s.Notes().Create(ctx, &n, []string{"work", "urgent"}))
	require.Len(t, n.Tags, 2)
	require.Equal(t, work.ID, n.Tags[0].ID)

	all, err := s.Tags().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	notes, err := s.Notes().ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.ElementsMatch(t, []string{"work", "urgent"}, []string{notes[0].Tags[0].Name, notes[0].Tags[1].Name})
}

func TestNotes_OwnershipAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	alice := newUser(t, s, "alice")
	bob := newUser(t, s, "bob")

	n := model.Note{ID: uuid.Must(uuid.NewV4()), UserID: alice.ID, Title: "t"}
	require.NoError(t, s.Notes().Create(ctx, &n, []string{"x"}))

	_, err := s.Notes().Get(ctx, bob.ID, n.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	upd, err := s.Notes().Update(ctx, bob.ID, n.ID, model.NoteUpdate{Title: "hack"})
	require.NoError(t, err)
	require.Nil(t, upd)
	ok, err := s.Notes().Delete(ctx, bob.ID, n.ID)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Notes().Delete(ctx, alice.ID, n.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.Notes().Delete(ctx, alice.ID, n.ID)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, s.links)
}

func TestNotes_UpdateKeepsLockedWhenNil(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice")
	n := model.Note{ID: uuid.Must(uuid.NewV4()), UserID: u.ID, Title: "t", Locked: true}
	require.NoError(t, s.Notes().Create(ctx, &n, nil))

	got, err := s.Notes().Update(ctx, u.ID, n.ID, model.NoteUpdate{Title: "T", Content: "C"})
	require.NoError(t, err)
	require.True(t, got.Locked)
	require.Equal(t, "T", got.Title)

	unlocked := false
	got, err = s.Notes().Update(ctx, u.ID, n.ID, model.NoteUpdate{Title: "T", Locked: &unlocked})
	require.NoError(t, err)
	require.False(t, got.Locked)
}

func TestTags_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	a := model.Tag{ID: uuid.Must(uuid.NewV4()), Name: "a"}
	b := model.Tag{ID: uuid.Must(uuid.NewV4()), Name: "b"}
	require.NoError(t, s.Tags().Create(ctx, &a))
	require.NoError(t, s.Tags().Create(ctx, &b))
	require.ErrorIs(t, s.Tags().Create(ctx, &model.Tag{ID: uuid.Must(uuid.NewV4()), Name: "a"}), errs.ErrAlreadyExists)

	_, err := s.Tags().Update(ctx, b.ID, "a")
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	got, err := s.Tags().Update(ctx, b.ID, "c")
	require.NoError(t, err)
	require.Equal(t, "c", got.Name)
	_, err = s.Tags().Update(ctx, uuid.Must(uuid.NewV4()), "z")
	require.ErrorIs(t, err, errs.ErrNotFound)

	ok, err := s.Tags().Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.Tags().Get(ctx, a.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_ConcurrentTaggedCreates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := model.Note{ID: uuid.Must(uuid.NewV4()), UserID: u.ID, Title: "t"}
			_ = s.Notes().Create(ctx, &n, []string{"shared"})
		}()
	}
	wg.Wait()

	tags, err := s.Tags().List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	notes, err := s.Notes().ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, notes, 16)
}
