// Package domain contains core types for the mess menu.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("meal not found")

// Meal slots served each day.
const (
	TypeBreakfast = "breakfast"
	TypeLunch     = "lunch"
	TypeDinner    = "dinner"
)

type Meal struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	PGPropertyID snowflake.ID `gorm:"column:pg_property_id;not null;index" json:"pg_property_id"`
	Date         time.Time    `gorm:"column:date;not null;index" json:"date"`
	MealType     string       `gorm:"column:meal_type;not null" json:"meal_type"`
	Menu         string       `gorm:"column:menu;not null" json:"menu"`
	IsActive     bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedBy    snowflake.ID `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Meal) TableName() string { return "meals" }

type Repository interface {
	InsertBatch(ctx context.Context, db *gorm.DB, meals []Meal) error
	ListByProperty(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, date time.Time) ([]Meal, error)
	UpdateMenu(ctx context.Context, db *gorm.DB, id snowflake.ID, menu string) error
}

type Service interface {
	// SeedDefaults writes the standard breakfast, lunch and dinner rows for
	// a newly registered property.
	SeedDefaults(ctx context.Context, propertyID, createdBy snowflake.ID, date time.Time) ([]Meal, error)
	ListByProperty(ctx context.Context, propertyID snowflake.ID, date time.Time) ([]Meal, error)
	SetMenu(ctx context.Context, id snowflake.ID, menu string) error
}
