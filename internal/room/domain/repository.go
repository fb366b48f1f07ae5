package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("room not found")
	// ErrUnavailable is returned when a claim matches no available row,
	// meaning a concurrent booking won the room.
	ErrUnavailable = errors.New("room unavailable")
)

type Repository interface {
	InsertBatch(ctx context.Context, db *gorm.DB, rooms []Room) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Room, error)
	ListAvailableByProperty(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) ([]Room, error)
	// Claim marks the room occupied in a single conditional statement. Zero
	// rows affected maps to ErrUnavailable.
	Claim(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	Release(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type Service interface {
	Get(ctx context.Context, id snowflake.ID) (*Room, error)
	ListAvailable(ctx context.Context, propertyID snowflake.ID) ([]Room, error)
	// GenerateForProperty creates totalRooms rooms in one batch with
	// deterministic round-robin types and prices derived from baseRent.
	GenerateForProperty(ctx context.Context, propertyID snowflake.ID, totalRooms int, baseRent int64) ([]Room, error)
}
