package payment

import (
	"github.com/spacemate/spacemate/internal/payment/repository"
	"github.com/spacemate/spacemate/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
