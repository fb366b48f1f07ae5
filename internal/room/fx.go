package room

import (
	"github.com/spacemate/spacemate/internal/room/repository"
	"github.com/spacemate/spacemate/internal/room/service"
	"go.uber.org/fx"
)

var Module = fx.Module("room.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
