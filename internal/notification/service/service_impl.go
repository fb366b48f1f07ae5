package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/clock"
	"github.com/spacemate/spacemate/internal/notification/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(conn *gorm.DB, log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		db:    conn,
		log:   log.Named("notification.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Notification, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("notification title is required")
	}
	kind := req.Type
	if kind == "" {
		kind = domain.TypeInfo
	}

	notification := &domain.Notification{
		ID:             s.genID.Generate(),
		PGPropertyID:   req.PGPropertyID,
		UserID:         req.UserID,
		Title:          req.Title,
		Message:        req.Message,
		Type:           kind,
		RequiresAction: req.RequiresAction,
		ActionData:     datatypes.JSONMap(req.ActionData),
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Notification, error) {
	return s.repo.FindByID(ctx, s.db, id)
}

func (s *service) ListByProperty(ctx context.Context, propertyID snowflake.ID) ([]domain.Notification, error) {
	return s.repo.ListByProperty(ctx, s.db, propertyID)
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *service) MarkRead(ctx context.Context, id snowflake.ID) error {
	return s.repo.MarkRead(ctx, s.db, id)
}
