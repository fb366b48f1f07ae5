package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/meal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, meals []domain.Meal) error {
	if len(meals) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&meals).Error
}

func (r *repo) ListByProperty(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, date time.Time) ([]domain.Meal, error) {
	var meals []domain.Meal
	err := db.WithContext(ctx).
		Where("pg_property_id = ? AND date = ? AND is_active = ?", propertyID, date, true).
		Order("meal_type ASC").
		Find(&meals).Error
	return meals, err
}

func (r *repo) UpdateMenu(ctx context.Context, db *gorm.DB, id snowflake.ID, menu string) error {
	tx := db.WithContext(ctx).Model(&domain.Meal{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"menu":       menu,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
