// Package domain contains core types for rooms.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Room types generated for a property.
const (
	TypeSingle = "single"
	TypeDouble = "double"
	TypeTriple = "triple"
)

type Room struct {
	ID           snowflake.ID                `gorm:"primaryKey" json:"id"`
	PGPropertyID snowflake.ID                `gorm:"column:pg_property_id;not null;index" json:"pg_property_id"`
	RoomNumber   string                      `gorm:"column:room_number;not null" json:"room_number"`
	Type         string                      `gorm:"column:type;not null" json:"type"`
	Capacity     int                         `gorm:"column:capacity;not null" json:"capacity"`
	Occupied     int                         `gorm:"column:occupied;not null;default:0" json:"occupied"`
	Price        int64                       `gorm:"column:price;not null" json:"price"`
	FloorNumber  int                         `gorm:"column:floor_number;not null" json:"floor_number"`
	IsAvailable  bool                        `gorm:"column:is_available;not null;default:true" json:"is_available"`
	Amenities    datatypes.JSONSlice[string] `gorm:"column:amenities" json:"amenities"`
	CreatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Room) TableName() string { return "rooms" }
