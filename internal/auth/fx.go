package auth

import (
	"github.com/spacemate/spacemate/internal/auth/repository"
	"github.com/spacemate/spacemate/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
