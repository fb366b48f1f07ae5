package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/room/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, rooms []domain.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rooms).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Room, error) {
	var room domain.Room
	err := db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repo) ListAvailableByProperty(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) ([]domain.Room, error) {
	var rooms []domain.Room
	err := db.WithContext(ctx).
		Where("pg_property_id = ? AND is_available = ?", propertyID, true).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *repo) Claim(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ? AND is_available = ?", id, true).
		Updates(map[string]any{
			"is_available": false,
			"occupied":     gorm.Expr("occupied + 1"),
			"updated_at":   time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrUnavailable
	}
	return nil
}

func (r *repo) Release(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ? AND occupied > 0", id).
		Updates(map[string]any{
			"is_available": true,
			"occupied":     gorm.Expr("occupied - 1"),
			"updated_at":   time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
