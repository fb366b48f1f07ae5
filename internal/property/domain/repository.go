package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("property not found")
	// ErrNotActive is returned when a conditional occupancy update matches
	// no active row.
	ErrNotActive = errors.New("property not active")
)

// ListFilter narrows ListActive results. Gender "male" and "female" also
// include "unisex" listings; "unisex" matches only unisex listings.
type ListFilter struct {
	Gender string
	City   string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, property *Property) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Property, error)
	ListActive(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Property, *pagination.PageInfo, error)
	// IncrementOccupied bumps occupied_rooms by one in a single conditional
	// statement. Zero rows affected maps to ErrNotActive.
	IncrementOccupied(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DecrementOccupied(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type CreateRequest struct {
	Name            string
	Address         string
	City            string
	State           string
	Pincode         string
	ContactNumber   string
	ManagerName     string
	TotalRooms      int
	MonthlyRent     int64
	SecurityDeposit int64
	Gender          string
	PGType          string
	Description     string
	Amenities       []string
	Rules           []string
	CreatedBy       snowflake.ID
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Property, error)
	Get(ctx context.Context, id snowflake.ID) (*Property, error)
	ListActive(ctx context.Context, filter ListFilter, page pagination.Pagination) ([]Property, *pagination.PageInfo, error)
}
