package service

import (
	"errors"
	"python_tutor_backend/internal/config"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService() (*AuthService, *mockUserRepo) {
	repo := newMockUserRepo()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret-that-is-long-enough-123", ExpireTime: time.Hour}}
	return NewAuthService(repo, cfg), repo
}

func TestAuthService_Register(t *testing.T) {
	svc, repo := newTestAuthService()

	user := &model.User{Name: "Ana", Email: "  Ana@Test.com ", Password: "password123"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.Email != "ana@test.com" {
		t.Errorf("email = %q, want normalised ana@test.com", user.Email)
	}
	if user.Role != model.Student {
		t.Errorf("role = %q, want STUDENT by default", user.Role)
	}
	stored, _ := repo.FindByEmail("ana@test.com")
	if stored == nil {
		t.Fatal("user was not stored")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")) != nil {
		t.Error("stored password is not a bcrypt hash of the original")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService()

	if err := svc.Register(&model.User{Name: "A", Email: "a@test.com", Password: "password123"}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	err := svc.Register(&model.User{Name: "B", Email: "A@test.com", Password: "password123"})
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("err = %v, want ErrEmailRegistered", err)
	}
}

func TestAuthService_Register_AdminRejected(t *testing.T) {
	svc, _ := newTestAuthService()

	err := svc.Register(&model.User{Name: "Root", Email: "root@test.com", Password: "password123", Role: model.Admin})
	if !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService()
	user := &model.User{Name: "Profe", Email: "profe@test.com", Password: "password123", Role: model.Professor}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, got, err := svc.Login("PROFE@test.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("user id = %d, want %d", got.ID, user.ID)
	}

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.Professor || claims.Email != "profe@test.com" {
		t.Errorf("claims = %+v, want id %d PROFESSOR profe@test.com", claims, user.ID)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _ := newTestAuthService()
	svc.Register(&model.User{Name: "A", Email: "a@test.com", Password: "password123"})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@test.com", "password123"},
		{"wrong password", "a@test.com", "wrong-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(tt.email, tt.password)
			if !errors.Is(err, util.ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
