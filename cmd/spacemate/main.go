package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/spacemate/spacemate/internal/clock"
	"github.com/spacemate/spacemate/internal/config"
	"github.com/spacemate/spacemate/internal/migration"
	"github.com/spacemate/spacemate/internal/observability"
	"github.com/spacemate/spacemate/internal/seed"
	"github.com/spacemate/spacemate/internal/server"
	"github.com/spacemate/spacemate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
