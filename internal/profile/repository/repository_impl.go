package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/profile/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "full_name", "role", "phone", "gender", "pg_property_id", "updated_at",
		}),
	}).Create(profile).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repo) UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	tx := db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) AssignRole(ctx context.Context, db *gorm.DB, role *domain.UserRole) error {
	return db.WithContext(ctx).Create(role).Error
}

func (r *repo) HasRole(ctx context.Context, db *gorm.DB, userID snowflake.ID, role string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}

func (r *repo) ExistsByRole(ctx context.Context, db *gorm.DB, role string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Profile{}).Where("role = ?", role).Count(&count).Error
	return count > 0, err
}
