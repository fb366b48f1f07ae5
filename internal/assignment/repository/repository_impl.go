package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/assignment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, assignment *domain.RoomAssignment) error {
	return db.WithContext(ctx).Create(assignment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.RoomAssignment, error) {
	var assignment domain.RoomAssignment
	err := db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repo) ActiveByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.RoomAssignment, error) {
	var assignment domain.RoomAssignment
	err := db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repo) ListByProperty(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) ([]domain.RoomAssignment, error) {
	var assignments []domain.RoomAssignment
	err := db.WithContext(ctx).
		Where("pg_property_id = ? AND is_active = ?", propertyID, true).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID, endDate time.Time) error {
	tx := db.WithContext(ctx).Model(&domain.RoomAssignment{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":  false,
			"end_date":   endDate,
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
