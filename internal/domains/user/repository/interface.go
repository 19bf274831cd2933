package repository

import (
	"context"

	"inventory-backend/internal/domains/user/model"

	"github.com/google/uuid"
)

// RepositoryInterface is the user persistence contract. Inactive users cannot
// log in but keep authorship of the documents they posted.
type RepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
}
