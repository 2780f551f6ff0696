package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// NoteRepo implements NoteRepository using PostgreSQL.
type NoteRepo struct{ db *DB }

var _ repository.NoteRepository = (*NoteRepo)(nil)

// NewNoteRepo constructs a note repository.
func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

// Create inserts the note, then resolves and links every tag in the same transaction.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note, tagNames []string) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		const ins = `
INSERT INTO notes (id, user_id, title, content, locked)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`
		if err := tx.QueryRow(ctx, ins, n.ID, n.UserID, n.Title, n.Content, n.Locked).
			Scan(&n.CreatedAt, &n.UpdatedAt); err != nil {
			return err
		}

		const link = `INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		tags := make([]model.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			tag, err := resolveTag(ctx, tx, name)
			if err != nil {
				return fmt.Errorf("resolve tag %q: %w", name, err)
			}
			if _, err := tx.Exec(ctx, link, n.ID, tag.ID); err != nil {
				return fmt.Errorf("link tag %q: %w", name, err)
			}
			tags = append(tags, tag)
		}
		n.Tags = tags
		return nil
	})
}

// resolveTag returns the tag with the given name, creating it when absent.
// A concurrent insert of the same name is absorbed by ON CONFLICT, so the
// returned id is always the stored one.
func resolveTag(ctx context.Context, tx pgx.Tx, name string) (model.Tag, error) {
	const sel = `SELECT id FROM tags WHERE name=$1`
	t := model.Tag{Name: name}
	err := tx.QueryRow(ctx, sel, name).Scan(&t.ID)
	switch {
	case err == nil:
		return t, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return model.Tag{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.Tag{}, err
	}
	const ins = `
INSERT INTO tags (id, name) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`
	if err := tx.QueryRow(ctx, ins, id, name).Scan(&t.ID); err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

// ListByOwner returns the owner's notes ordered by creation time.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	const q = `
SELECT id, user_id, title, content, locked, created_at, updated_at
FROM notes
WHERE user_id=$1
ORDER BY created_at, id`
	notes, err := r.queryNotes(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Get returns a note owned by ownerID.
func (r *NoteRepo) Get(ctx context.Context, ownerID, noteID uuid.UUID) (*model.Note, error) {
	const q = `
SELECT id, user_id, title, content, locked, created_at, updated_at
FROM notes WHERE id=$1 AND user_id=$2`
	n, err := scanNote(r.db.Pool.QueryRow(ctx, q, noteID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	notes := []model.Note{n}
	if err := r.attachTags(ctx, notes); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

// Update overwrites title and content (and locked when set). Missing or foreign
// notes and unique violations yield nil, nil.
func (r *NoteRepo) Update(ctx context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error) {
	const q = `
UPDATE notes
SET title=$3, content=$4, locked=COALESCE($5, locked), updated_at=now()
WHERE id=$1 AND user_id=$2
RETURNING id, user_id, title, content, locked, created_at, updated_at`
	n, err := scanNote(r.db.Pool.QueryRow(ctx, q, noteID, ownerID, upd.Title, upd.Content, upd.Locked))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return nil, nil
		}
		return nil, err
	}
	notes := []model.Note{n}
	if err := r.attachTags(ctx, notes); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

// Delete removes a note owned by ownerID; its tag links go with it (FK cascade).
func (r *NoteRepo) Delete(ctx context.Context, ownerID, noteID uuid.UUID) (bool, error) {
	const q = `DELETE FROM notes WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, noteID, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NoteRepo) queryNotes(ctx context.Context, q string, args ...any) ([]model.Note, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// attachTags loads tags of all given notes with a single query.
func (r *NoteRepo) attachTags(ctx context.Context, notes []model.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]string, len(notes))
	for i := range notes {
		ids[i] = notes[i].ID.String()
		notes[i].Tags = []model.Tag{}
	}

	const q = `
SELECT nt.note_id, t.id, t.name
FROM note_tags nt
JOIN tags t ON t.id = nt.tag_id
WHERE nt.note_id = ANY($1::uuid[])
ORDER BY nt.created_at, t.name`
	rows, err := r.db.Pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byNote := make(map[uuid.UUID][]model.Tag, len(notes))
	for rows.Next() {
		var (
			noteID uuid.UUID
			t      model.Tag
		)
		if err := rows.Scan(&noteID, &t.ID, &t.Name); err != nil {
			return err
		}
		byNote[noteID] = append(byNote[noteID], t)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range notes {
		if tags, ok := byNote[notes[i].ID]; ok {
			notes[i].Tags = tags
		}
	}
	return nil
}

func scanNote(row pgx.Row) (model.Note, error) {
	var n model.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Locked, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}
