package service

import (
	"context"
	"fmt"
	"math"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/clock"
	"github.com/spacemate/spacemate/internal/room/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Round-robin room plan: index i (1-based) picks slot i%3.
var (
	roomTypes    = [3]string{domain.TypeSingle, domain.TypeDouble, domain.TypeTriple}
	priceFactors = [3]float64{1.0, 0.8, 0.6}
	capacities   = [3]int{1, 2, 3}

	// Singles get the premium fit-out, shared rooms the basic one.
	roomAmenities = map[string][]string{
		domain.TypeSingle: {"AC", "Attached Bathroom"},
		domain.TypeDouble: {"Fan", "Common Bathroom"},
		domain.TypeTriple: {"Fan", "Common Bathroom"},
	}
)

const roomsPerFloor = 10

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
		log:   log.Named("room.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Room, error) {
	return s.repo.FindByID(ctx, s.db, id)
}

func (s *service) ListAvailable(ctx context.Context, propertyID snowflake.ID) ([]domain.Room, error) {
	return s.repo.ListAvailableByProperty(ctx, s.db, propertyID)
}

func (s *service) GenerateForProperty(ctx context.Context, propertyID snowflake.ID, totalRooms int, baseRent int64) ([]domain.Room, error) {
	if totalRooms <= 0 {
		return nil, nil
	}

	now := s.clock.Now()
	rooms := make([]domain.Room, 0, totalRooms)
	for i := 1; i <= totalRooms; i++ {
		slot := i % 3
		roomType := roomTypes[slot]
		rooms = append(rooms, domain.Room{
			ID:           s.genID.Generate(),
			PGPropertyID: propertyID,
			RoomNumber:   fmt.Sprintf("%03d", i),
			Type:         roomType,
			Capacity:     capacities[slot],
			Occupied:     0,
			Price:        int64(math.Round(float64(baseRent) * priceFactors[slot])),
			FloorNumber:  (i + roomsPerFloor - 1) / roomsPerFloor,
			IsAvailable:  true,
			Amenities:    roomAmenities[roomType],
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.repo.InsertBatch(ctx, s.db, rooms); err != nil {
		return nil, err
	}

	s.log.Info("rooms generated",
		zap.String("pg_property_id", propertyID.String()),
		zap.Int("count", len(rooms)),
	)
	return rooms, nil
}
