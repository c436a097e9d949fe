package ports

import (
	"context"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

// UserRepository defines persistence for accounts. Email uniqueness is
// enforced by the store: Create and Update return domain.ErrDuplicateEmail on
// a collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update replaces the mutable fields of an existing account and returns
	// the stored result.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
