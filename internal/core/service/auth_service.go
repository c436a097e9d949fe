package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartwaste/waste-api/internal/core/credential"
	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

// Register validates and stores a new account, then issues its first token.
// The lookup by email only saves a hash on the common path; the store's
// unique index decides races.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*ports.AuthResult, error) {
	defer reg.Password.Zero()

	user, err := reg.Validate()
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: find by email: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, reg.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	user.Password = hash
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(domain.Identity{UserID: created.ID, Role: created.Role()})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role())).Msg("user registered")
	return &ports.AuthResult{Token: token, User: created}, nil
}

// Login checks credentials and the requested role. Unknown email and wrong
// password are both ErrInvalidCredentials; a wrong role is ErrRoleMismatch.
func (s *AuthService) Login(ctx context.Context, email string, password domain.PlainPassword, role string) (*ports.AuthResult, error) {
	defer password.Zero()

	email = credential.NormalizeEmail(email)
	role = strings.TrimSpace(role)
	switch {
	case email == "":
		return nil, domain.MissingField("email")
	case password.Empty():
		return nil, domain.MissingField("password")
	case role == "":
		return nil, domain.MissingField("role")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("reason", "unknown_email").Msg("login rejected")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find by email: %w", err)
	}

	ok, err := s.hasher.Compare(ctx, user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("login: compare password: %w", err)
	}
	if !ok {
		s.log.Info().Str("reason", "password_mismatch").Str("user_id", user.ID).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	if string(user.Role()) != role {
		s.log.Info().Str("reason", "role_mismatch").Str("user_id", user.ID).Msg("login rejected")
		return nil, domain.ErrRoleMismatch
	}

	token, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Role: user.Role()})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}
