package services

import (
	"context"
	"testing"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/auth"
	"cms-backend/internal/config"
	"cms-backend/internal/models"
)

func newUserHarness() (*UserService, *memUserStore) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "cms-backend"

	users := newMemUserStore()
	return NewUserService(users, auth.NewJWTManager(cfg)), users
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newUserHarness()

	tests := []struct {
		name string
		req  models.SignupRequest
	}{
		{name: "missing name", req: models.SignupRequest{Email: "a@b.com", Password: "secret123"}},
		{name: "missing email", req: models.SignupRequest{Name: "A", Password: "secret123"}},
		{name: "short password", req: models.SignupRequest{Name: "A", Email: "a@b.com", Password: "short"}},
		{name: "bad role", req: models.SignupRequest{Name: "A", Email: "a@b.com", Password: "secret123", Role: "superuser"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), &tt.req)
			if !apperrors.IsKind(err, apperrors.KindValidation) {
				t.Fatalf("error = %v, want validation_error", err)
			}
		})
	}
}

func TestSignup(t *testing.T) {
	svc, _ := newUserHarness()

	resp, err := svc.Signup(context.Background(), &models.SignupRequest{
		Name:     "Suresh",
		Email:    "  Suresh@Example.COM ",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("signup should return a token")
	}
	if resp.User.Email != "suresh@example.com" {
		t.Errorf("email = %q, want normalized lowercase", resp.User.Email)
	}
	if resp.User.Role != models.RoleOperator {
		t.Errorf("role = %q, want operator default", resp.User.Role)
	}
	if resp.User.PasswordHash == "secret123" {
		t.Error("password must be hashed")
	}
}

func TestLogin(t *testing.T) {
	svc, users := newUserHarness()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &models.SignupRequest{
		Name: "Suresh", Email: "suresh@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "Suresh@Example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Token == "" || resp.User.ID != 1 {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Email: "suresh@example.com", Password: "wrong-pass"})
		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Fatalf("error = %v, want validation_error", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		// Same error as a wrong password, to avoid leaking which emails exist.
		_, err := svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Fatalf("error = %v, want validation_error", err)
		}
	})

	t.Run("suspended account", func(t *testing.T) {
		users.mu.Lock()
		users.users[1].IsActive = false
		users.mu.Unlock()

		_, err := svc.Login(ctx, &models.LoginRequest{Email: "suresh@example.com", Password: "secret123"})
		if !apperrors.IsKind(err, apperrors.KindInvalidState) {
			t.Fatalf("error = %v, want invalid_state", err)
		}
	})
}
