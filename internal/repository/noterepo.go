package repository

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// NoteRepository provides owner-scoped access to notes and their tag associations.
// Every lookup is keyed by (note id, owner id); foreign notes behave as missing.
type NoteRepository interface {
	// Create inserts the note, resolves or creates each tag by name and links them, atomically.
	// On success n.Tags, n.CreatedAt and n.UpdatedAt are filled.
	Create(ctx context.Context, n *model.Note, tagNames []string) error

	// ListByOwner returns all notes of the owner with their tags.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error)

	// Get returns a single note or errs.ErrNotFound.
	Get(ctx context.Context, ownerID, noteID uuid.UUID) (*model.Note, error)

	// Update overwrites the note and refreshes updated_at. Returns nil, nil when nothing was updated.
	Update(ctx context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error)

	// Delete removes the note; reports whether a row was removed.
	Delete(ctx context.Context, ownerID, noteID uuid.UUID) (bool, error)
}
