package ports

import (
	"context"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*AuthResult, error)
	Login(ctx context.Context, email string, password domain.PlainPassword, role string) (*AuthResult, error)
}

// ProfileService operates on the caller's own account.
type ProfileService interface {
	Get(ctx context.Context, id domain.Identity) (*domain.User, error)
	Update(ctx context.Context, id domain.Identity, patch domain.ProfilePatch) (*domain.User, error)
	Delete(ctx context.Context, id domain.Identity) error
}
