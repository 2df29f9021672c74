package identity

import (
	"context"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserFilter holds filter options for listing users
type UserFilter struct {
	shared.Filter
	Role   *Role
	Banned *bool
	Search string // matches nickname or external id
}

// UserRepository defines the persistence interface for users
type UserRepository interface {
	// Create persists a new user. A duplicate external id fails with
	// shared.ErrAlreadyExists via the unique constraint.
	Create(ctx context.Context, user *User) error

	// FindByID finds a user by internal id
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByExternalID finds a user by the external account id
	FindByExternalID(ctx context.Context, externalID string) (*User, error)

	// Save persists changes to an existing user
	Save(ctx context.Context, user *User) error

	// List returns users matching the filter with the total count
	List(ctx context.Context, filter UserFilter) ([]*User, int64, error)
}
