// Package domain contains core types for PG properties.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Gender values accepted on a property listing.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnisex = "unisex"
)

// Property is a PG/hostel listing. Money is stored in whole rupees.
type Property struct {
	ID              snowflake.ID               `gorm:"primaryKey" json:"id"`
	Slug            string                     `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Name            string                     `gorm:"column:name;not null" json:"name"`
	Address         string                     `gorm:"column:address" json:"address"`
	City            string                     `gorm:"column:city" json:"city"`
	State           string                     `gorm:"column:state" json:"state"`
	Pincode         string                     `gorm:"column:pincode" json:"pincode"`
	ContactNumber   string                     `gorm:"column:contact_number" json:"contact_number"`
	ManagerName     string                     `gorm:"column:manager_name" json:"manager_name"`
	TotalRooms      int                        `gorm:"column:total_rooms;not null" json:"total_rooms"`
	OccupiedRooms   int                        `gorm:"column:occupied_rooms;not null;default:0" json:"occupied_rooms"`
	MonthlyRent     int64                      `gorm:"column:monthly_rent;not null" json:"monthly_rent"`
	SecurityDeposit int64                      `gorm:"column:security_deposit;not null" json:"security_deposit"`
	Gender          string                     `gorm:"column:gender;not null;default:unisex" json:"gender"`
	PGType          string                     `gorm:"column:pg_type" json:"pg_type"`
	Description     string                     `gorm:"column:description" json:"description"`
	Amenities       datatypes.JSONSlice[string] `gorm:"column:amenities" json:"amenities"`
	Rules           datatypes.JSONSlice[string] `gorm:"column:rules" json:"rules"`
	Rating          float64                    `gorm:"column:rating;not null;default:0" json:"rating"`
	Established     *string                    `gorm:"column:established" json:"established,omitempty"`
	IsActive        bool                       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedBy       snowflake.ID               `gorm:"column:created_by;not null;index" json:"created_by"`
	CreatedAt       time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Property) TableName() string { return "pg_properties" }
