package security

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

// BcryptHasher implements ports.PasswordHasher with bcrypt. Each hash gets
// its own random salt; comparison is constant-time.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(ctx context.Context, plain domain.PlainPassword) (domain.PasswordHash, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword(plain.Bytes(), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return domain.PasswordHash(hash), nil
}

func (h *BcryptHasher) Compare(ctx context.Context, hash domain.PasswordHash, plain domain.PlainPassword) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), plain.Bytes())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt compare: %w", err)
	}
}
