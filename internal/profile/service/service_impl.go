package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/profile/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(db *gorm.DB, log *zap.Logger, repo domain.Repository) domain.Service {
	return &service{
		db:   db,
		log:  log.Named("profile.service"),
		repo: repo,
	}
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Profile, error) {
	return s.repo.FindByID(ctx, s.db, id)
}

func (s *service) LinkProperty(ctx context.Context, id snowflake.ID, propertyID snowflake.ID, phone string) error {
	fields := map[string]any{
		"pg_property_id": propertyID,
		"updated_at":     time.Now().UTC(),
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		fields["phone"] = phone
	}
	return s.repo.UpdateFields(ctx, s.db, id, fields)
}
