package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/spacemate/spacemate/internal/auth/domain"
	"github.com/spacemate/spacemate/internal/auth/password"
	"github.com/spacemate/spacemate/internal/clock"
	profiledomain "github.com/spacemate/spacemate/internal/profile/domain"
	"github.com/spacemate/spacemate/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour

	minPasswordLength = 8
)

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	profiles    profiledomain.Repository
	genID       *snowflake.Node
	clock       clock.Clock
}

func New(
	conn *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	sessionRepo domain.SessionRepository,
	profiles profiledomain.Repository,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &Service{
		db:          conn,
		log:         log.Named("auth.service"),
		repo:        repo,
		sessionRepo: sessionRepo,
		profiles:    profiles,
		genID:       genID,
		clock:       clk,
	}
}

// CreateUser writes the users, profiles and user_roles rows in a single
// transaction. An account is never visible without its directory entry.
func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = profiledomain.RoleGuest
	}

	if _, err := s.repo.FindByEmail(ctx, s.db, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = defaultDisplayName(email)
	}

	user := &domain.User{
		ID:                  s.genID.Generate(),
		ExternalID:          uuid.NewString(),
		Provider:            "local",
		DisplayName:         fullName,
		Email:               email,
		PasswordHash:        &hashed,
		LastPasswordChanged: &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	profile := &profiledomain.Profile{
		ID:        user.ID,
		Email:     email,
		FullName:  fullName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if sub := strings.TrimSpace(req.AdminSubRole); sub != "" {
		profile.AdminSubRole = &sub
	}
	if gender := strings.TrimSpace(req.Gender); gender != "" {
		profile.Gender = &gender
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, user); err != nil {
			return err
		}
		if err := s.profiles.Insert(ctx, tx, profile); err != nil {
			return err
		}
		return s.profiles.AssignRole(ctx, tx, &profiledomain.UserRole{
			ID:        s.genID.Generate(),
			UserID:    user.ID,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	s.log.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", role),
	)
	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(req.UserAgent),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, s.db, session); err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"user_id":     user.ID.String(),
		"external_id": user.ExternalID,
		"provider":    user.Provider,
		"email":       user.Email,
		"full_name":   user.DisplayName,
	}
	if profile, err := s.profiles.FindByID(ctx, s.db, user.ID); err == nil {
		metadata["role"] = profile.Role
		if profile.AdminSubRole != nil {
			metadata["admin_sub_role"] = *profile.AdminSubRole
		}
		if profile.PGPropertyID != nil {
			metadata["pg_property_id"] = profile.PGPropertyID.String()
		}
	} else if !errors.Is(err, profiledomain.ErrNotFound) {
		return nil, err
	}

	return &domain.LoginResult{
		Session:   &domain.SessionView{Metadata: metadata},
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
		UserID:    user.ID,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	return s.sessionRepo.RevokeSession(ctx, s.db, session.ID, s.clock.Now())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, s.db, session.ID, now); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID snowflake.ID, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	if _, err := s.repo.FindByID(ctx, s.db, userID); err != nil {
		return err
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	return s.repo.UpdateFields(ctx, s.db, userID, map[string]any{
		"password_hash":         hashed,
		"last_password_changed": &now,
		"updated_at":            now,
	})
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func defaultDisplayName(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
