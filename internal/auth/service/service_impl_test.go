package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	authdomain "github.com/spacemate/spacemate/internal/auth/domain"
	"github.com/spacemate/spacemate/internal/auth/repository"
	"github.com/spacemate/spacemate/internal/clock"
	profiledomain "github.com/spacemate/spacemate/internal/profile/domain"
	profilerepository "github.com/spacemate/spacemate/internal/profile/repository"
	"github.com/spacemate/spacemate/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (authdomain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&profiledomain.Profile{},
		&profiledomain.UserRole{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, sessionRepo := repository.Provide()
	profiles := profilerepository.Provide()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(dbConn, zap.NewNop(), repo, sessionRepo, profiles, node, clock.NewSystemClock()), dbConn
}

func TestCreateUserWritesProfileAndRole(t *testing.T) {
	svc, dbConn := newTestService(t)

	user, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "alice@example.com",
		Password: "strong-password",
		FullName: "Alice",
		Role:     profiledomain.RoleGuest,
		Gender:   "female",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user.Provider != "local" {
		t.Fatalf("expected provider local, got %s", user.Provider)
	}
	if _, err := uuid.Parse(user.ExternalID); err != nil {
		t.Fatalf("expected external id UUID, got %v", err)
	}

	var profile profiledomain.Profile
	if err := dbConn.First(&profile, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("expected profile row: %v", err)
	}
	if profile.Role != profiledomain.RoleGuest {
		t.Fatalf("expected role guest, got %s", profile.Role)
	}
	if profile.Gender == nil || *profile.Gender != "female" {
		t.Fatalf("expected gender female, got %v", profile.Gender)
	}

	var role profiledomain.UserRole
	if err := dbConn.First(&role, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("expected user_roles row: %v", err)
	}
	if role.Role != profiledomain.RoleGuest {
		t.Fatalf("expected role guest, got %s", role.Role)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "bob@example.com",
		Password: "strong-password",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "bob@example.com",
		Password: "another-password",
	})
	if !errors.Is(err, authdomain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestCreateUserWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "carol@example.com",
		Password: "short",
	})
	if !errors.Is(err, authdomain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "dave@example.com",
		Password: "correct-password",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "dave@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, authdomain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSessionMetadataCarriesRole(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:        "erin@example.com",
		Password:     "strong-password",
		FullName:     "Erin",
		Role:         profiledomain.RolePGAdmin,
		AdminSubRole: "owner",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "erin@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected raw token")
	}
	if got := result.Session.Metadata["role"]; got != profiledomain.RolePGAdmin {
		t.Fatalf("expected role pg_admin in metadata, got %v", got)
	}
	if got := result.Session.Metadata["admin_sub_role"]; got != "owner" {
		t.Fatalf("expected admin_sub_role owner, got %v", got)
	}
}

func TestAuthenticateRevokedSession(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "frank@example.com",
		Password: "strong-password",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "frank@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), result.RawToken); err != nil {
		t.Fatalf("expected valid session: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), result.RawToken); !errors.Is(err, authdomain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}
