package ports

import (
	"context"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

// PasswordHasher turns plain passwords into salted hashes and checks
// candidates against them. Both operations are CPU-bound.
type PasswordHasher interface {
	Hash(ctx context.Context, plain domain.PlainPassword) (domain.PasswordHash, error)
	// Compare reports whether plain matches hash. A mismatch is (false, nil).
	Compare(ctx context.Context, hash domain.PasswordHash, plain domain.PlainPassword) (bool, error)
}

// TokenIssuer signs auth tokens for an identity.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

// TokenVerifier resolves a signed token back to an identity without I/O.
// Failures are domain.ErrTokenExpired or domain.ErrTokenInvalid.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}
