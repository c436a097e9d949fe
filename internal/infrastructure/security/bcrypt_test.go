package security

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	ctx := context.Background()

	hash, err := h.Hash(ctx, domain.NewPlainPassword("Str0ng!Pass"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(hash), "$2a$"))

	ok, err := h.Compare(ctx, hash, domain.NewPlainPassword("  Str0ng!Pass "))
	require.NoError(t, err)
	require.True(t, ok, "candidate is trimmed before comparison")

	ok, err = h.Compare(ctx, hash, domain.NewPlainPassword("Wr0ng!Pass"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash(context.Background(), domain.NewPlainPassword("Str0ng!Pass"))
	require.NoError(t, err)
	b, err := h.Hash(context.Background(), domain.NewPlainPassword("Str0ng!Pass"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	ok, err := h.Compare(context.Background(), domain.PasswordHash("plain-text"), domain.NewPlainPassword("x"))
	require.Error(t, err)
	require.False(t, ok)
}

func TestBcryptHasher_CancelledContext(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Hash(ctx, domain.NewPlainPassword("Str0ng!Pass"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	require.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	require.Equal(t, 12, NewBcryptHasher(12).cost)
}
