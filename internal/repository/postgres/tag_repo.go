package postgres

import (
	"context"
	"errors"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// TagRepo implements TagRepository using PostgreSQL.
type TagRepo struct{ db *DB }

var _ repository.TagRepository = (*TagRepo)(nil)

// NewTagRepo constructs a tag repository.
func NewTagRepo(db *DB) *TagRepo { return &TagRepo{db: db} }

// Create inserts a tag. A taken name yields errs.ErrAlreadyExists.
func (r *TagRepo) Create(ctx context.Context, t *model.Tag) error {
	const q = `INSERT INTO tags (id, name) VALUES ($1, $2)`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.Name)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// List returns all tags ordered by name.
func (r *TagRepo) List(ctx context.Context) ([]model.Tag, error) {
	const q = `SELECT id, name FROM tags ORDER BY name`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get selects a tag by ID.
func (r *TagRepo) Get(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	const q = `SELECT id, name FROM tags WHERE id=$1`
	var t model.Tag
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update renames a tag.
func (r *TagRepo) Update(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error) {
	const q = `UPDATE tags SET name=$2 WHERE id=$1 RETURNING id, name`
	var t model.Tag
	if err := r.db.Pool.QueryRow(ctx, q, id, name).Scan(&t.ID, &t.Name); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, errs.ErrNotFound
		case isUniqueViolation(err):
			return nil, errs.ErrAlreadyExists
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes a tag and its note links.
func (r *TagRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM tags WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
