package service

import (
	"errors"
	"testing"

	"github.com/homemart-shop/internal/config"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/repository"

	"gorm.io/gorm"
)

func newUserAuthServiceForTest(db *gorm.DB) *UserAuthService {
	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "user-auth-test-secret-0123456789abcdef"
	cfg.UserJWT.ExpireHours = 24
	cfg.UserJWT.RememberMeExpireHours = 168
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireNumber: true,
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t, "user_auth_register")
	svc := newUserAuthServiceForTest(db)

	user, token, expiresAt, err := svc.Register("Buyer@Example.com", "password123", "", "13800002222")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.Email != "buyer@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.DisplayName != "buyer" {
		t.Fatalf("expected nickname from email local part, got %q", user.DisplayName)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("expected issued token, got token=%q expires=%v", token, expiresAt)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("ParseUserJWT error: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, _, err := svc.Login("buyer@example.com", "password123"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if _, _, _, err := svc.Login("buyer@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t, "user_auth_dup")
	svc := newUserAuthServiceForTest(db)

	if _, _, _, err := svc.Register("dup@example.com", "password123", "A", ""); err != nil {
		t.Fatalf("first register error: %v", err)
	}
	if _, _, _, err := svc.Register(" DUP@example.com ", "password456", "B", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterInvalidEmail(t *testing.T) {
	db := newTestDB(t, "user_auth_email")
	svc := newUserAuthServiceForTest(db)

	for _, email := range []string{"", "not-an-email", "a@", "Name <x@example.com>"} {
		if _, _, _, err := svc.Register(email, "password123", "", ""); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("email %q: expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	db := newTestDB(t, "user_auth_weak")
	svc := newUserAuthServiceForTest(db)

	_, _, _, err := svc.Register("weak@example.com", "short1", "", "")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for short password, got %v", err)
	}
	var policyErr interface {
		Key() string
		Args() []interface{}
	}
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected policy error with key, got %T", err)
	}
	if policyErr.Key() != "error.password_min_length" {
		t.Fatalf("unexpected policy key: %s", policyErr.Key())
	}

	if _, _, _, err := svc.Register("weak@example.com", "longpassword", "", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for missing digit, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	db := newTestDB(t, "user_auth_disabled")
	svc := newUserAuthServiceForTest(db)

	user, _, _, err := svc.Register("off@example.com", "password123", "", "")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", "disabled").Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("off@example.com", "password123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestChangePasswordInvalidatesTokens(t *testing.T) {
	db := newTestDB(t, "user_auth_change")
	svc := newUserAuthServiceForTest(db)

	user, _, _, err := svc.Register("change@example.com", "password123", "", "")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong-old", "newpassword1"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "password123", "short1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "password123", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if stored.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("expected token version bump, got %d", stored.TokenVersion)
	}
	if stored.TokenInvalidBefore == nil {
		t.Fatalf("expected token_invalid_before set")
	}

	if _, _, _, err := svc.Login("change@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, _, _, err := svc.Login("change@example.com", "newpassword1"); err != nil {
		t.Fatalf("login with new password error: %v", err)
	}
}

func TestChangePasswordUserNotFound(t *testing.T) {
	db := newTestDB(t, "user_auth_change_missing")
	svc := newUserAuthServiceForTest(db)
	if err := svc.ChangePassword(9999, "a", "newpassword1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRememberMeExtendsExpiry(t *testing.T) {
	db := newTestDB(t, "user_auth_remember")
	svc := newUserAuthServiceForTest(db)

	if _, _, _, err := svc.Register("rm@example.com", "password123", "", ""); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	_, _, normalExpiry, err := svc.LoginWithRememberMe("rm@example.com", "password123", false)
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	_, _, rememberExpiry, err := svc.LoginWithRememberMe("rm@example.com", "password123", true)
	if err != nil {
		t.Fatalf("remember-me login error: %v", err)
	}
	if !rememberExpiry.After(normalExpiry) {
		t.Fatalf("expected remember-me expiry after normal expiry: %v vs %v", rememberExpiry, normalExpiry)
	}
}
