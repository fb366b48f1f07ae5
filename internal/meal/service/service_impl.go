package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/meal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Default menus served until a warden edits them.
var defaultMenus = []struct {
	mealType string
	menu     string
}{
	{domain.TypeBreakfast, "Bread, Butter, Jam, Tea, Fruits"},
	{domain.TypeLunch, "Rice, Dal, Mixed Vegetables, Roti, Curd"},
	{domain.TypeDinner, "Chapati, Dal, Sabzi, Pickle"},
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(conn *gorm.DB, log *zap.Logger, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		db:    conn,
		log:   log.Named("meal.service"),
		repo:  repo,
		genID: genID,
	}
}

func (s *service) SeedDefaults(ctx context.Context, propertyID, createdBy snowflake.ID, date time.Time) ([]domain.Meal, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	now := time.Now().UTC()

	meals := make([]domain.Meal, 0, len(defaultMenus))
	for _, m := range defaultMenus {
		meals = append(meals, domain.Meal{
			ID:           s.genID.Generate(),
			PGPropertyID: propertyID,
			Date:         day,
			MealType:     m.mealType,
			Menu:         m.menu,
			IsActive:     true,
			CreatedBy:    createdBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.repo.InsertBatch(ctx, s.db, meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func (s *service) ListByProperty(ctx context.Context, propertyID snowflake.ID, date time.Time) ([]domain.Meal, error) {
	return s.repo.ListByProperty(ctx, s.db, propertyID, date.UTC().Truncate(24*time.Hour))
}

func (s *service) SetMenu(ctx context.Context, id snowflake.ID, menu string) error {
	return s.repo.UpdateMenu(ctx, s.db, id, menu)
}
