package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/meal/domain"
	"github.com/spacemate/spacemate/internal/meal/repository"
	"github.com/spacemate/spacemate/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Meal{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(conn, zap.NewNop(), repository.Provide(), node)
}

func TestSeedDefaultsCreatesThreeMeals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	propertyID := snowflake.ID(101)
	createdBy := snowflake.ID(7)
	day := time.Date(2024, 3, 14, 18, 30, 0, 0, time.UTC)

	meals, err := svc.SeedDefaults(ctx, propertyID, createdBy, day)
	require.NoError(t, err)
	require.Len(t, meals, 3)

	byType := make(map[string]domain.Meal, len(meals))
	for _, m := range meals {
		byType[m.MealType] = m
	}
	assert.Equal(t, "Bread, Butter, Jam, Tea, Fruits", byType[domain.TypeBreakfast].Menu)
	assert.Equal(t, "Rice, Dal, Mixed Vegetables, Roti, Curd", byType[domain.TypeLunch].Menu)
	assert.Equal(t, "Chapati, Dal, Sabzi, Pickle", byType[domain.TypeDinner].Menu)

	for _, m := range meals {
		assert.Equal(t, propertyID, m.PGPropertyID)
		assert.Equal(t, createdBy, m.CreatedBy)
		assert.True(t, m.IsActive)
		// The date collapses to the UTC day regardless of the time of signup.
		assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), m.Date)
	}
}

func TestListByPropertyFiltersByDay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	propertyID := snowflake.ID(101)
	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	_, err := svc.SeedDefaults(ctx, propertyID, snowflake.ID(7), day)
	require.NoError(t, err)
	_, err = svc.SeedDefaults(ctx, propertyID, snowflake.ID(7), day.AddDate(0, 0, 1))
	require.NoError(t, err)

	meals, err := svc.ListByProperty(ctx, propertyID, day.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Len(t, meals, 3)

	other, err := svc.ListByProperty(ctx, snowflake.ID(999), day)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSetMenuUpdatesRow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	propertyID := snowflake.ID(101)
	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	meals, err := svc.SeedDefaults(ctx, propertyID, snowflake.ID(7), day)
	require.NoError(t, err)

	require.NoError(t, svc.SetMenu(ctx, meals[0].ID, "Poha, Tea"))

	updated, err := svc.ListByProperty(ctx, propertyID, day)
	require.NoError(t, err)

	var found bool
	for _, m := range updated {
		if m.ID == meals[0].ID {
			found = true
			assert.Equal(t, "Poha, Tea", m.Menu)
		}
	}
	require.True(t, found)
}

func TestSetMenuUnknownMeal(t *testing.T) {
	svc := newTestService(t)

	err := svc.SetMenu(context.Background(), snowflake.ID(424242), "Poha, Tea")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
