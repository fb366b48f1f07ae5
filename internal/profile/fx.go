package profile

import (
	"github.com/spacemate/spacemate/internal/profile/repository"
	"github.com/spacemate/spacemate/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
