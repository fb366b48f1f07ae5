package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/clock"
	"github.com/spacemate/spacemate/internal/payment/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
}

func New(conn *gorm.DB, log *zap.Logger, repo domain.Repository, clk clock.Clock) domain.Service {
	return &service{
		db:    conn,
		log:   log.Named("payment.service"),
		repo:  repo,
		clock: clk,
	}
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Payment, error) {
	return s.repo.FindByID(ctx, s.db, id)
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Payment, error) {
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *service) MarkPaid(ctx context.Context, id snowflake.ID, method, transactionID string) (*domain.Payment, error) {
	if _, err := s.repo.FindByID(ctx, s.db, id); err != nil {
		return nil, err
	}

	paidAt := s.clock.Now()
	if err := s.repo.MarkPaid(ctx, s.db, id, paidAt, method, transactionID); err != nil {
		return nil, err
	}

	s.log.Info("payment settled",
		zap.String("payment_id", id.String()),
		zap.String("method", method),
	)
	return s.repo.FindByID(ctx, s.db, id)
}
