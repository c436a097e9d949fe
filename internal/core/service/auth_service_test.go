package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/infrastructure/queue"
	"github.com/smartwaste/waste-api/internal/infrastructure/security"
)

// stubUserRepo mimics the store: emails are unique, enforced on write.
type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User // by id
	nextID int
	// hideOnLookup makes FindByEmail miss, as if a concurrent insert had not
	// yet become visible.
	hideOnLookup bool
	findErr      error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(user.Email, "") {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[stored.ID] = cloneUser(stored)
	return stored, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.hideOnLookup {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return nil, domain.ErrDuplicateEmail
	}
	stored := cloneUser(user)
	stored.Revision++
	r.users[user.ID] = cloneUser(stored)
	return stored, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

const testSecret = "secret"

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, security.NewBcryptHasher(bcrypt.MinCost), NewTokenManager(testSecret, time.Hour), zerolog.Nop())
}

func driverRegistration(email, password string) domain.Registration {
	return domain.Registration{
		Role:          "driver",
		Name:          "Dana Driver",
		Email:         email,
		Phone:         "+15551234567",
		Password:      domain.NewPlainPassword(password),
		ProfileFields: domain.ProfileFields{License: "DL-42", Vehicle: "Truck 9"},
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	res, err := svc.Register(context.Background(), driverRegistration("Dana@Example.com", "Dr1ver$Pass"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.User.Email != "dana@example.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if res.User.Role() != domain.RoleDriver {
		t.Fatalf("unexpected role: %s", res.User.Role())
	}
	if string(res.User.Password) == "Dr1ver$Pass" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.Password), []byte("Dr1ver$Pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if res.User.CreatedAt.IsZero() || !res.User.CreatedAt.Equal(res.User.UpdatedAt) {
		t.Fatalf("expected timestamps to be set, got %v / %v", res.User.CreatedAt, res.User.UpdatedAt)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["userId"] != res.User.ID || claims["role"] != "driver" {
		t.Fatalf("unexpected claims: %v", claims)
	}
	exp, _ := claims.GetExpirationTime()
	iat, _ := claims.GetIssuedAt()
	if exp == nil || iat == nil || exp.Sub(iat.Time) != time.Hour {
		t.Fatalf("expected 1h expiry, got iat=%v exp=%v", iat, exp)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	reg := domain.Registration{
		Role:     "citizen",
		Name:     "Cit",
		Email:    "cit@example.com",
		Phone:    "0123456789",
		Password: domain.NewPlainPassword("Str0ng!Pass"),
		ProfileFields: domain.ProfileFields{
			Location: "North",
		},
	}
	_, err := svc.Register(context.Background(), reg)
	if !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if !strings.Contains(err.Error(), "address") {
		t.Fatalf("expected error to name the field, got %q", err.Error())
	}

	if _, err := svc.Register(context.Background(), driverRegistration("bad-email", "Dr1ver$Pass")); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(context.Background(), driverRegistration("d@example.com", "weakpass")); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthService_Register_DuplicateNormalizedEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	if _, err := svc.Register(context.Background(), driverRegistration("bob@example.com", "Dr1ver$Pass")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), driverRegistration("  BOB@Example.COM ", "An0ther$Pass"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one stored account, got %d", repo.count())
	}
}

func TestAuthService_Register_DuplicateCaughtByStore(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	if _, err := svc.Register(context.Background(), driverRegistration("race@example.com", "Dr1ver$Pass")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	repo.hideOnLookup = true
	_, err := svc.Register(context.Background(), driverRegistration("race@example.com", "Dr1ver$Pass"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail from the store, got %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one stored account, got %d", repo.count())
	}
}

func TestAuthService_Register_LookupFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc := newAuthSvc(repo)

	_, err := svc.Register(context.Background(), driverRegistration("x@example.com", "Dr1ver$Pass"))
	if err == nil || errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected an internal error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	reg, err := svc.Register(context.Background(), driverRegistration("carol@example.com", "Dr1ver$Pass"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), " Carol@Example.com ", domain.NewPlainPassword(" Dr1ver$Pass "), "driver")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	id, err := NewTokenManager(testSecret, time.Hour).Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if id.UserID != reg.User.ID || id.Role != domain.RoleDriver {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	_, _ = svc.Register(context.Background(), driverRegistration("dave@example.com", "Dr1ver$Pass"))
	if _, err := svc.Login(context.Background(), "dave@example.com", domain.NewPlainPassword("Wr0ng$Pass"), "driver"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost@example.com", domain.NewPlainPassword("Dr1ver$Pass"), "driver"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_RoleMismatch(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	_, _ = svc.Register(context.Background(), driverRegistration("erin@example.com", "Dr1ver$Pass"))
	if _, err := svc.Login(context.Background(), "erin@example.com", domain.NewPlainPassword("Dr1ver$Pass"), "citizen"); err != domain.ErrRoleMismatch {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
}

func TestAuthService_Login_UnknownRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	_, _ = svc.Register(context.Background(), driverRegistration("fay@example.com", "Dr1ver$Pass"))
	if _, err := svc.Login(context.Background(), "fay@example.com", domain.NewPlainPassword("Dr1ver$Pass"), "admin"); err != domain.ErrRoleMismatch {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "fay@example.com", domain.NewPlainPassword("Wr0ng$Pass"), "admin"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	cases := []struct {
		email, password, role, field string
	}{
		{"", "Dr1ver$Pass", "driver", "email"},
		{"a@example.com", "  ", "driver", "password"},
		{"a@example.com", "Dr1ver$Pass", "", "role"},
	}
	for _, tc := range cases {
		_, err := svc.Login(context.Background(), tc.email, domain.NewPlainPassword(tc.password), tc.role)
		if !errors.Is(err, domain.ErrMissingField) || !strings.Contains(err.Error(), tc.field) {
			t.Fatalf("expected missing %s, got %v", tc.field, err)
		}
	}
}

func TestAuthService_Register_ZeroesPassword(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	reg := driverRegistration("zed@example.com", "Dr1ver$Pass")
	if _, err := svc.Register(context.Background(), reg); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	for _, b := range reg.Password.Bytes() {
		if b != 0 {
			t.Fatalf("expected plain password to be zeroed after hashing")
		}
	}
}

// heldHasher keeps every job until release is closed and reports the
// password bytes it finally hashed.
type heldHasher struct {
	started chan struct{}
	release chan struct{}
	seen    chan string
}

func (h *heldHasher) Hash(_ context.Context, plain domain.PlainPassword) (domain.PasswordHash, error) {
	h.started <- struct{}{}
	<-h.release
	h.seen <- string(plain.Bytes())
	return "held", nil
}

func (h *heldHasher) Compare(context.Context, domain.PasswordHash, domain.PlainPassword) (bool, error) {
	return false, nil
}

func TestAuthService_Register_CancelledWhileHashing(t *testing.T) {
	poolCtx, stop := context.WithCancel(context.Background())
	defer stop()

	inner := &heldHasher{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		seen:    make(chan string, 1),
	}
	pool := queue.NewHashPool(1, inner, zerolog.Nop())
	pool.Start(poolCtx)

	repo := newStubUserRepo()
	svc := NewAuthService(repo, pool, NewTokenManager(testSecret, time.Hour), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := driverRegistration("slow@example.com", "Dr1ver$Pass")
	errc := make(chan error, 1)
	go func() {
		_, err := svc.Register(ctx, reg)
		errc <- err
	}()
	<-inner.started
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	for _, b := range reg.Password.Bytes() {
		if b != 0 {
			t.Fatalf("expected caller's password to be zeroed on return")
		}
	}

	close(inner.release)
	select {
	case got := <-inner.seen:
		if got != "Dr1ver$Pass" {
			t.Fatalf("worker hashed %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker never ran the job")
	}
	if repo.count() != 0 {
		t.Fatalf("expected no stored account, got %d", repo.count())
	}
}
