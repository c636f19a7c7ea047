package location

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/location/repository"
	"github.com/shopkit/tradepost/internal/location/service"
)

var Module = fx.Module("location.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
