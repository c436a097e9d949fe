package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

// ProfileService reads, updates and deletes the caller's own account.
type ProfileService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

func NewProfileService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, hasher: hasher, log: log, now: time.Now}
}

func (s *ProfileService) Get(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.repo.FindByID(ctx, id.UserID)
}

// Update applies patch to the caller's account. Only supplied fields change;
// a new password is re-hashed before it reaches the store.
func (s *ProfileService) Update(ctx context.Context, id domain.Identity, patch domain.ProfilePatch) (*domain.User, error) {
	if patch.Password != nil {
		defer patch.Password.Zero()
	}

	user, err := s.repo.FindByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	if err := user.ApplyPatch(patch, s.now().UTC()); err != nil {
		return nil, err
	}

	if pw, ok := patch.NewPassword(); ok {
		hash, err := s.hasher.Hash(ctx, pw)
		if err != nil {
			return nil, fmt.Errorf("update profile: hash password: %w", err)
		}
		user.Password = hash
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Msg("profile updated")
	return updated, nil
}

func (s *ProfileService) Delete(ctx context.Context, id domain.Identity) error {
	if _, err := s.repo.FindByID(ctx, id.UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id.UserID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id.UserID).Msg("profile deleted")
	return nil
}
