package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/assignment/domain"
	"github.com/spacemate/spacemate/internal/assignment/repository"
	"github.com/spacemate/spacemate/internal/clock"
	propertydomain "github.com/spacemate/spacemate/internal/property/domain"
	propertyrepository "github.com/spacemate/spacemate/internal/property/repository"
	propertyservice "github.com/spacemate/spacemate/internal/property/service"
	roomdomain "github.com/spacemate/spacemate/internal/room/domain"
	roomrepository "github.com/spacemate/spacemate/internal/room/repository"
	roomservice "github.com/spacemate/spacemate/internal/room/service"
	"github.com/spacemate/spacemate/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type endFixture struct {
	svc        domain.Service
	db         *gorm.DB
	property   *propertydomain.Property
	room       roomdomain.Room
	assignment *domain.RoomAssignment
	node       *snowflake.Node
}

// newEndFixture seeds one property with a single booked room, mirroring the
// state a guest signup leaves behind.
func newEndFixture(t *testing.T) *endFixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&propertydomain.Property{},
		&roomdomain.Room{},
		&domain.RoomAssignment{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	log := zap.NewNop()
	clk := clock.NewSystemClock()
	ctx := context.Background()

	propertyRepo := propertyrepository.Provide()
	propertysvc := propertyservice.New(dbConn, log, propertyRepo, node, clk)
	property, err := propertysvc.Create(ctx, propertydomain.CreateRequest{
		Name:        "Checkout Residency",
		City:        "Bengaluru",
		TotalRooms:  1,
		MonthlyRent: 5000,
		Gender:      propertydomain.GenderUnisex,
		CreatedBy:   node.Generate(),
	})
	if err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}

	roomRepo := roomrepository.Provide()
	roomsvc := roomservice.New(dbConn, log, roomRepo, node, clk)
	rooms, err := roomsvc.GenerateForProperty(ctx, property.ID, 1, 5000)
	if err != nil {
		t.Fatalf("failed to seed rooms: %v", err)
	}
	room := rooms[0]

	if err := roomRepo.Claim(ctx, dbConn, room.ID); err != nil {
		t.Fatalf("failed to claim room: %v", err)
	}
	if err := propertyRepo.IncrementOccupied(ctx, dbConn, property.ID); err != nil {
		t.Fatalf("failed to bump occupancy: %v", err)
	}

	repo := repository.Provide()
	now := clk.Now()
	assignment := &domain.RoomAssignment{
		ID:              node.Generate(),
		UserID:          node.Generate(),
		PGPropertyID:    property.ID,
		RoomID:          room.ID,
		StartDate:       now,
		MonthlyRent:     5000,
		SecurityDeposit: 10000,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Insert(ctx, dbConn, assignment); err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}

	return &endFixture{
		svc:        New(dbConn, log, repo, roomRepo, propertyRepo),
		db:         dbConn,
		property:   property,
		room:       room,
		assignment: assignment,
		node:       node,
	}
}

func TestEndReleasesRoomAndOccupancy(t *testing.T) {
	f := newEndFixture(t)
	endDate := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)

	ended, err := f.svc.End(context.Background(), f.assignment.ID, endDate)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if ended.IsActive {
		t.Fatal("expected assignment to be inactive")
	}
	if ended.EndDate == nil || !ended.EndDate.Equal(endDate) {
		t.Fatalf("expected end date %v, got %v", endDate, ended.EndDate)
	}

	var room roomdomain.Room
	if err := f.db.First(&room, "id = ?", f.room.ID).Error; err != nil {
		t.Fatalf("failed to reload room: %v", err)
	}
	if !room.IsAvailable || room.Occupied != 0 {
		t.Fatalf("room not released: is_available=%v occupied=%d", room.IsAvailable, room.Occupied)
	}

	var property propertydomain.Property
	if err := f.db.First(&property, "id = ?", f.property.ID).Error; err != nil {
		t.Fatalf("failed to reload property: %v", err)
	}
	if property.OccupiedRooms != 0 {
		t.Fatalf("expected occupancy 0, got %d", property.OccupiedRooms)
	}
}

func TestEndTwiceDoesNotDoubleRelease(t *testing.T) {
	f := newEndFixture(t)
	endDate := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)

	if _, err := f.svc.End(context.Background(), f.assignment.ID, endDate); err != nil {
		t.Fatalf("first end failed: %v", err)
	}
	if _, err := f.svc.End(context.Background(), f.assignment.ID, endDate); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second end, got %v", err)
	}

	// Occupancy stays at zero, the room is not released twice.
	var room roomdomain.Room
	if err := f.db.First(&room, "id = ?", f.room.ID).Error; err != nil {
		t.Fatalf("failed to reload room: %v", err)
	}
	if !room.IsAvailable || room.Occupied != 0 {
		t.Fatalf("unexpected room state: is_available=%v occupied=%d", room.IsAvailable, room.Occupied)
	}
}

func TestEndUnknownAssignment(t *testing.T) {
	f := newEndFixture(t)

	_, err := f.svc.End(context.Background(), f.node.Generate(), time.Now().UTC())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
