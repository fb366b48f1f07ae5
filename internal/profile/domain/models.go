// Package domain contains core types for user profiles and roles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role names stored on profiles and user_roles rows.
const (
	RoleSuperAdmin = "super_admin"
	RolePGAdmin    = "pg_admin"
	RoleWarden     = "warden"
	RoleGuest      = "guest"
)

// Profile mirrors the account's directory entry. Its primary key equals the
// users row id.
type Profile struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	Email        string        `gorm:"column:email;not null" json:"email"`
	FullName     string        `gorm:"column:full_name" json:"full_name"`
	Role         string        `gorm:"column:role;not null;default:guest" json:"role"`
	AdminSubRole *string       `gorm:"column:admin_sub_role" json:"admin_sub_role,omitempty"`
	Phone        *string       `gorm:"column:phone" json:"phone,omitempty"`
	Gender       *string       `gorm:"column:gender" json:"gender,omitempty"`
	AvatarURL    *string       `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	PGPropertyID *snowflake.ID `gorm:"column:pg_property_id;index" json:"pg_property_id,omitempty"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }

// UserRole is the role-assignment row created alongside every account.
type UserRole struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	Role      string       `gorm:"column:role;not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (UserRole) TableName() string { return "user_roles" }
