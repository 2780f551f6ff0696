package repository

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// TagRepository provides access to global tags.
type TagRepository interface {
	Create(ctx context.Context, t *model.Tag) error
	List(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
