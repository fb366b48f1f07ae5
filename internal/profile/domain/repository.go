package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("profile not found")

// Repository methods accept the database handle so callers can run several
// repositories inside one transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, profile *Profile) error
	Upsert(ctx context.Context, db *gorm.DB, profile *Profile) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Profile, error)
	Exists(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	AssignRole(ctx context.Context, db *gorm.DB, role *UserRole) error
	HasRole(ctx context.Context, db *gorm.DB, userID snowflake.ID, role string) (bool, error)
	ExistsByRole(ctx context.Context, db *gorm.DB, role string) (bool, error)
}

type Service interface {
	Get(ctx context.Context, id snowflake.ID) (*Profile, error)
	LinkProperty(ctx context.Context, id snowflake.ID, propertyID snowflake.ID, phone string) error
}
