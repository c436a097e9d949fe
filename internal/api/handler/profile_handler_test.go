package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

type stubProfileService struct {
	getFn    func(ctx context.Context, id domain.Identity) (*domain.User, error)
	updateFn func(ctx context.Context, id domain.Identity, patch domain.ProfilePatch) (*domain.User, error)
	deleteFn func(ctx context.Context, id domain.Identity) error
}

func (s *stubProfileService) Get(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubProfileService) Update(ctx context.Context, id domain.Identity, patch domain.ProfilePatch) (*domain.User, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubProfileService) Delete(ctx context.Context, id domain.Identity) error {
	return s.deleteFn(ctx, id)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleCitizen)
	return c
}

func TestProfileHandler_Get(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{
		getFn: func(ctx context.Context, id domain.Identity) (*domain.User, error) {
			if id.UserID != "u1" || id.Role != domain.RoleCitizen {
				t.Fatalf("unexpected identity: %+v", id)
			}
			return testUser(t, domain.RoleCitizen, domain.ProfileFields{Address: "1 Main St", Location: "North"}), nil
		},
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodGet, "/api/users/profile", nil), rec)

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["email"] != "dana@example.com" || resp["address"] != "1 Main St" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password must never be returned")
	}
}

func TestProfileHandler_Get_NoIdentity(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/profile", nil), rec)

	if code := httpStatus(t, handler.Get(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestProfileHandler_Update_OnlySuppliedFields(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{
		updateFn: func(ctx context.Context, id domain.Identity, patch domain.ProfilePatch) (*domain.User, error) {
			if patch.Phone == nil || *patch.Phone != "+15559876543" {
				t.Fatalf("phone not passed: %+v", patch)
			}
			if patch.Name != nil || patch.Email != nil || patch.Password != nil {
				t.Fatalf("unsupplied fields must stay nil: %+v", patch)
			}
			user := testUser(t, domain.RoleCitizen, domain.ProfileFields{Address: "1 Main St", Location: "North"})
			user.Phone = *patch.Phone
			return user, nil
		},
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, jsonRequest(http.MethodPut, "/api/users/profile", `{"phone":"+15559876543"}`), rec)

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["message"] != "Profile updated successfully" {
		t.Fatalf("unexpected message: %+v", resp)
	}
	user, _ := resp["user"].(map[string]any)
	if user["phone"] != "+15559876543" || user["name"] != "Dana" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestProfileHandler_Update_Password(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{
		updateFn: func(ctx context.Context, id domain.Identity, patch domain.ProfilePatch) (*domain.User, error) {
			pw, ok := patch.NewPassword()
			if !ok || string(pw.Bytes()) != "N3w!Password" {
				t.Fatalf("password not passed")
			}
			return testUser(t, domain.RoleCitizen, domain.ProfileFields{Address: "a", Location: "b"}), nil
		},
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, jsonRequest(http.MethodPut, "/api/users/profile", `{"password":" N3w!Password "}`), rec)

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestProfileHandler_Delete(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{
		deleteFn: func(ctx context.Context, id domain.Identity) error { return nil },
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodDelete, "/api/users/profile", nil), rec)

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decode(t, rec); resp["message"] != "User deleted successfully" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProfileHandler_Delete_NotFound(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{
		deleteFn: func(ctx context.Context, id domain.Identity) error { return domain.ErrUserNotFound },
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodDelete, "/api/users/profile", nil), rec)

	if err := handler.Delete(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
