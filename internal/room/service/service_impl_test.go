package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/clock"
	"github.com/spacemate/spacemate/internal/room/domain"
	"github.com/spacemate/spacemate/internal/room/repository"
	"github.com/spacemate/spacemate/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, domain.Repository, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Room{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := repository.Provide()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(dbConn, zap.NewNop(), repo, node, clock.NewSystemClock()), repo, dbConn
}

func TestGenerateForPropertyRoundRobin(t *testing.T) {
	svc, _, _ := newTestService(t)

	node, _ := snowflake.NewNode(2)
	propertyID := node.Generate()

	rooms, err := svc.GenerateForProperty(context.Background(), propertyID, 12, 5000)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if len(rooms) != 12 {
		t.Fatalf("expected 12 rooms, got %d", len(rooms))
	}

	// Room 1 lands in slot 1%3 = 1: double at 80% of base rent.
	first := rooms[0]
	if first.RoomNumber != "001" {
		t.Fatalf("expected room_number 001, got %s", first.RoomNumber)
	}
	if first.Type != domain.TypeDouble || first.Capacity != 2 || first.Price != 4000 {
		t.Fatalf("unexpected first room: type=%s capacity=%d price=%d", first.Type, first.Capacity, first.Price)
	}
	if !reflect.DeepEqual([]string(first.Amenities), []string{"Fan", "Common Bathroom"}) {
		t.Fatalf("unexpected shared room amenities: %v", first.Amenities)
	}

	// Room 3 lands in slot 0: single at full base rent.
	third := rooms[2]
	if third.Type != domain.TypeSingle || third.Capacity != 1 || third.Price != 5000 {
		t.Fatalf("unexpected third room: type=%s capacity=%d price=%d", third.Type, third.Capacity, third.Price)
	}
	if !reflect.DeepEqual([]string(third.Amenities), []string{"AC", "Attached Bathroom"}) {
		t.Fatalf("unexpected single room amenities: %v", third.Amenities)
	}

	// Room 2 lands in slot 2: triple at 60% of base rent.
	second := rooms[1]
	if second.Type != domain.TypeTriple || second.Capacity != 3 || second.Price != 3000 {
		t.Fatalf("unexpected second room: type=%s capacity=%d price=%d", second.Type, second.Capacity, second.Price)
	}

	if rooms[9].FloorNumber != 1 {
		t.Fatalf("expected room 10 on floor 1, got %d", rooms[9].FloorNumber)
	}
	if rooms[10].FloorNumber != 2 {
		t.Fatalf("expected room 11 on floor 2, got %d", rooms[10].FloorNumber)
	}
}

func TestGenerateForPropertyZeroRooms(t *testing.T) {
	svc, _, _ := newTestService(t)

	node, _ := snowflake.NewNode(2)
	rooms, err := svc.GenerateForProperty(context.Background(), node.Generate(), 0, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("expected no rooms, got %d", len(rooms))
	}
}

func TestClaimLosesWhenAlreadyTaken(t *testing.T) {
	svc, repo, dbConn := newTestService(t)

	node, _ := snowflake.NewNode(2)
	rooms, err := svc.GenerateForProperty(context.Background(), node.Generate(), 1, 5000)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	roomID := rooms[0].ID

	if err := repo.Claim(context.Background(), dbConn, roomID); err != nil {
		t.Fatalf("first claim should win: %v", err)
	}
	if err := repo.Claim(context.Background(), dbConn, roomID); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	room, err := svc.Get(context.Background(), roomID)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if room.IsAvailable || room.Occupied != 1 {
		t.Fatalf("claim must only apply once: is_available=%v occupied=%d", room.IsAvailable, room.Occupied)
	}

	if err := repo.Release(context.Background(), dbConn, roomID); err != nil {
		t.Fatalf("failed to release: %v", err)
	}
	room, err = svc.Get(context.Background(), roomID)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if !room.IsAvailable || room.Occupied != 0 {
		t.Fatalf("release must restore availability: is_available=%v occupied=%d", room.IsAvailable, room.Occupied)
	}
}
