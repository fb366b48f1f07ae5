package notification

import (
	"github.com/spacemate/spacemate/internal/notification/repository"
	"github.com/spacemate/spacemate/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
