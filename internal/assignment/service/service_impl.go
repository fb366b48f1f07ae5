package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/assignment/domain"
	propertydomain "github.com/spacemate/spacemate/internal/property/domain"
	roomdomain "github.com/spacemate/spacemate/internal/room/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	rooms      roomdomain.Repository
	properties propertydomain.Repository
}

func New(conn *gorm.DB, log *zap.Logger, repo domain.Repository, rooms roomdomain.Repository, properties propertydomain.Repository) domain.Service {
	return &service{
		db:         conn,
		log:        log.Named("assignment.service"),
		repo:       repo,
		rooms:      rooms,
		properties: properties,
	}
}

func (s *service) ActiveByUser(ctx context.Context, userID snowflake.ID) (*domain.RoomAssignment, error) {
	return s.repo.ActiveByUser(ctx, s.db, userID)
}

func (s *service) ListByProperty(ctx context.Context, propertyID snowflake.ID) ([]domain.RoomAssignment, error) {
	return s.repo.ListByProperty(ctx, s.db, propertyID)
}

// End undoes the booking transaction: deactivate, release the room, drop
// the occupancy counter. Deactivate is conditional on is_active, so ending
// twice fails with ErrNotFound instead of double-releasing the room.
func (s *service) End(ctx context.Context, id snowflake.ID, endDate time.Time) (*domain.RoomAssignment, error) {
	assignment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Deactivate(ctx, tx, id, endDate); err != nil {
			return err
		}
		if err := s.rooms.Release(ctx, tx, assignment.RoomID); err != nil {
			return err
		}
		return s.properties.DecrementOccupied(ctx, tx, assignment.PGPropertyID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("assignment ended",
		zap.String("assignment_id", id.String()),
		zap.String("room_id", assignment.RoomID.String()),
	)
	return s.repo.FindByID(ctx, s.db, id)
}
