package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/clock"
	"github.com/spacemate/spacemate/internal/notification/domain"
	"github.com/spacemate/spacemate/internal/notification/repository"
	"github.com/spacemate/spacemate/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Notification{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC))
	return New(conn, zap.NewNop(), repository.Provide(), node, clk), clk
}

func ptrID(id snowflake.ID) *snowflake.ID { return &id }

func TestCreateDefaultsToInfoType(t *testing.T) {
	svc, clk := newTestService(t)

	n, err := svc.Create(context.Background(), domain.CreateRequest{
		PGPropertyID: ptrID(101),
		Title:        "Welcome to Space Mate!",
		Message:      "Your property is ready.",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeInfo, n.Type)
	assert.False(t, n.IsRead)
	assert.Equal(t, clk.Now(), n.CreatedAt)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		PGPropertyID: ptrID(101),
		Message:      "no title",
	})
	assert.Error(t, err)
}

func TestListByUserExcludesOtherUsers(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		UserID:  ptrID(200),
		Title:   "Rent due",
		Message: "Your rent is due this week.",
		Type:    domain.TypeWarning,
	})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	_, err = svc.Create(ctx, domain.CreateRequest{
		UserID:  ptrID(201),
		Title:   "Rent due",
		Message: "Your rent is due this week.",
		Type:    domain.TypeWarning,
	})
	require.NoError(t, err)

	notifications, err := svc.ListByUser(ctx, snowflake.ID(200))
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.NotNil(t, notifications[0].UserID)
	assert.Equal(t, snowflake.ID(200), *notifications[0].UserID)
}

func TestListByPropertyNewestFirst(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateRequest{
		PGPropertyID: ptrID(101),
		Title:        "Maintenance",
		Message:      "Water tank cleaning on Sunday.",
	})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	second, err := svc.Create(ctx, domain.CreateRequest{
		PGPropertyID: ptrID(101),
		Title:        "New guest",
		Message:      "A guest joined room 003.",
	})
	require.NoError(t, err)

	notifications, err := svc.ListByProperty(ctx, snowflake.ID(101))
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, second.ID, notifications[0].ID)
	assert.Equal(t, first.ID, notifications[1].ID)
}

func TestMarkRead(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, domain.CreateRequest{
		UserID:  ptrID(200),
		Title:   "Deposit received",
		Message: "Your security deposit was recorded.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, n.ID))

	notifications, err := svc.ListByUser(ctx, snowflake.ID(200))
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].IsRead)

	assert.ErrorIs(t, svc.MarkRead(ctx, snowflake.ID(424242)), domain.ErrNotFound)
}
