// Package domain contains core types for in-app notifications.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("notification not found")

// Notification types.
const (
	TypeGeneral = "general"
	TypeInfo    = "info"
	TypeWarning = "warning"
	TypeAction  = "action"
)

type Notification struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	PGPropertyID   *snowflake.ID     `gorm:"column:pg_property_id;index" json:"pg_property_id,omitempty"`
	UserID         *snowflake.ID     `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Title          string            `gorm:"column:title;not null" json:"title"`
	Message        string            `gorm:"column:message;not null" json:"message"`
	Type           string            `gorm:"column:type;not null;default:info" json:"type"`
	IsRead         bool              `gorm:"column:is_read;not null;default:false" json:"is_read"`
	RequiresAction bool              `gorm:"column:requires_action;not null;default:false" json:"requires_action"`
	ActionData     datatypes.JSONMap `gorm:"column:action_data" json:"action_data,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, notification *Notification) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Notification, error)
	ListByProperty(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) ([]Notification, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type CreateRequest struct {
	PGPropertyID   *snowflake.ID
	UserID         *snowflake.ID
	Title          string
	Message        string
	Type           string
	RequiresAction bool
	ActionData     map[string]any
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Notification, error)
	Get(ctx context.Context, id snowflake.ID) (*Notification, error)
	ListByProperty(ctx context.Context, propertyID snowflake.ID) ([]Notification, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Notification, error)
	MarkRead(ctx context.Context, id snowflake.ID) error
}
