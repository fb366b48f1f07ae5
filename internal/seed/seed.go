// Package seed performs startup bootstrap of the platform accounts.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/spacemate/spacemate/internal/auth/domain"
	"github.com/spacemate/spacemate/internal/auth/password"
	"github.com/spacemate/spacemate/internal/config"
	profiledomain "github.com/spacemate/spacemate/internal/profile/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const superAdminDisplay = "Super Admin"

// EnsureSuperAdmin creates the single super admin account when none
// exists. Existing super admins are left untouched.
func EnsureSuperAdmin(cfg config.Config, db *gorm.DB, log *zap.Logger, node *snowflake.Node) error {
	if !cfg.Bootstrap.EnsureSuperAdmin {
		return nil
	}
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Bootstrap.SuperAdminEmail))
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&profiledomain.Profile{}).
			Where("role = ?", profiledomain.RoleSuperAdmin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(cfg.Bootstrap.SuperAdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user := authdomain.User{
			ID:           node.Generate(),
			ExternalID:   uuid.NewString(),
			Provider:     "local",
			DisplayName:  superAdminDisplay,
			Email:        email,
			PasswordHash: &hashed,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := profiledomain.Profile{
			ID:        user.ID,
			Email:     email,
			FullName:  superAdminDisplay,
			Role:      profiledomain.RoleSuperAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		role := profiledomain.UserRole{
			ID:        node.Generate(),
			UserID:    user.ID,
			Role:      profiledomain.RoleSuperAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&role).Error; err != nil {
			return err
		}

		if log != nil {
			log.Info("super admin seeded", zap.String("email", email))
		}
		return nil
	})
}

var Module = fx.Module("seed",
	fx.Invoke(EnsureSuperAdmin),
)
