package meal

import (
	"github.com/spacemate/spacemate/internal/meal/repository"
	"github.com/spacemate/spacemate/internal/meal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
