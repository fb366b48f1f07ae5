package assignment

import (
	"github.com/spacemate/spacemate/internal/assignment/repository"
	"github.com/spacemate/spacemate/internal/assignment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assignment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
