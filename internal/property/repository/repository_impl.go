package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/property/domain"
	"github.com/spacemate/spacemate/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, property *domain.Property) error {
	return db.WithContext(ctx).Create(property).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Property, error) {
	var property domain.Property
	err := db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Property, *pagination.PageInfo, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Property{}).
		Where("is_active = ?", true)

	switch filter.Gender {
	case domain.GenderMale, domain.GenderFemale:
		stmt = stmt.Where("gender IN ?", []string{filter.Gender, domain.GenderUnisex})
	case domain.GenderUnisex:
		stmt = stmt.Where("gender = ?", domain.GenderUnisex)
	}
	if filter.City != "" {
		stmt = stmt.Where("city = ?", filter.City)
	}

	size := page.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 250 {
		size = 250
	}

	var properties []domain.Property
	stmt = pagination.Apply(page, stmt).Order("created_at DESC, id DESC")
	if err := stmt.Find(&properties).Error; err != nil {
		return nil, nil, err
	}

	info := &pagination.PageInfo{}
	if len(properties) > size {
		properties = properties[:size]
		info.HasMore = true
		last := properties[len(properties)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        last.ID.String(),
			CreatedAt: last.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, nil, err
		}
		info.NextPageToken = token
	}
	return properties, info, nil
}

func (r *repo) IncrementOccupied(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Model(&domain.Property{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"occupied_rooms": gorm.Expr("occupied_rooms + 1"),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotActive
	}
	return nil
}

func (r *repo) DecrementOccupied(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Model(&domain.Property{}).
		Where("id = ? AND occupied_rooms > 0", id).
		Updates(map[string]any{
			"occupied_rooms": gorm.Expr("occupied_rooms - 1"),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
