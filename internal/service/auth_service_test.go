package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/inkfolio/internal/config"
	"github.com/inkfolio/internal/models"
	"github.com/inkfolio/internal/repository"
)

func newAuthFixture(t *testing.T) (*AuthService, *repository.GormAdminRepository, *models.Admin) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.OpenDB("sqlite", "file:auth_"+name+"?mode=memory&cache=shared", false)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := repository.NewAdminRepository(db)
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1}}
	svc := NewAuthService(cfg, repo)
	hash, err := svc.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: "nitin", DisplayName: "Nitin Bharti", PasswordHash: hash}
	if err := repo.Create(admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return svc, repo, admin
}

func TestAuthServiceSignIn(t *testing.T) {
	svc, _, admin := newAuthFixture(t)
	ctx := context.Background()

	if _, _, _, err := svc.SignIn(ctx, "nitin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.SignIn(ctx, "nobody", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}

	signedIn, token, expiresAt, err := svc.SignIn(ctx, " nitin ", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if signedIn.ID != admin.ID || signedIn.LastLoginAt == nil || expiresAt.IsZero() {
		t.Fatalf("unexpected sign in result %+v", signedIn)
	}
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "nitin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatalf("tampered token should fail")
	}
}

func TestAuthServiceSignOutBumpsTokenVersion(t *testing.T) {
	svc, repo, admin := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.SignOut(ctx, admin.ID); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	reloaded, err := repo.GetByID(admin.ID)
	if err != nil {
		t.Fatalf("reload admin failed: %v", err)
	}
	if reloaded.TokenVersion != admin.TokenVersion+1 {
		t.Fatalf("token version want %d got %d", admin.TokenVersion+1, reloaded.TokenVersion)
	}
	if reloaded.TokenInvalidBefore == nil {
		t.Fatalf("token_invalid_before should be set")
	}

	current, err := svc.CurrentAdmin(admin.ID)
	if err != nil || current.Username != "nitin" {
		t.Fatalf("current admin want nitin got %+v err=%v", current, err)
	}
	if _, err := svc.CurrentAdmin(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestAuthServiceCreateAdminAppliesPasswordPolicy(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	svc.cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true}

	if _, err := svc.CreateAdmin("editor", "short1", "", false); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password want ErrWeakPassword got %v", err)
	}
	if _, err := svc.CreateAdmin("editor", "no-digits-here", "", false); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("password without number want ErrWeakPassword got %v", err)
	}
	if _, err := svc.CreateAdmin("nitin", "longenough1", "", false); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("duplicate username want ErrAdminExists got %v", err)
	}

	admin, err := svc.CreateAdmin(" editor ", "longenough1", "", false)
	if err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if admin.Username != "editor" || admin.DisplayName != "editor" || admin.IsSuper {
		t.Fatalf("unexpected admin %+v", admin)
	}
	if _, _, _, err := svc.SignIn(context.Background(), "editor", "longenough1"); err != nil {
		t.Fatalf("new admin should sign in: %v", err)
	}
}
