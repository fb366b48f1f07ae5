package property

import (
	"github.com/spacemate/spacemate/internal/property/repository"
	"github.com/spacemate/spacemate/internal/property/service"
	"go.uber.org/fx"
)

var Module = fx.Module("property.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
