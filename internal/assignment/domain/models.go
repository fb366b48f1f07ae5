// Package domain contains core types for room assignments.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("assignment not found")

// RoomAssignment ties a guest to a room. Rent and deposit are copied from
// the room and property rows at booking time, never from client input.
type RoomAssignment struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID          snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	PGPropertyID    snowflake.ID `gorm:"column:pg_property_id;not null;index" json:"pg_property_id"`
	RoomID          snowflake.ID `gorm:"column:room_id;not null;index" json:"room_id"`
	StartDate       time.Time    `gorm:"column:start_date;not null" json:"start_date"`
	EndDate         *time.Time   `gorm:"column:end_date" json:"end_date,omitempty"`
	MonthlyRent     int64        `gorm:"column:monthly_rent;not null" json:"monthly_rent"`
	SecurityDeposit int64        `gorm:"column:security_deposit;not null" json:"security_deposit"`
	IsActive        bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (RoomAssignment) TableName() string { return "room_assignments" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, assignment *RoomAssignment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*RoomAssignment, error)
	ActiveByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*RoomAssignment, error)
	ListByProperty(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) ([]RoomAssignment, error)
	Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID, endDate time.Time) error
}

type Service interface {
	ActiveByUser(ctx context.Context, userID snowflake.ID) (*RoomAssignment, error)
	ListByProperty(ctx context.Context, propertyID snowflake.ID) ([]RoomAssignment, error)
	// End closes out a tenancy: the assignment is deactivated, the room
	// released and the property occupancy decremented, all in one
	// transaction.
	End(ctx context.Context, id snowflake.ID, endDate time.Time) (*RoomAssignment, error)
}
