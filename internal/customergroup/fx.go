package customergroup

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/customergroup/repository"
	"github.com/shopkit/tradepost/internal/customergroup/service"
)

var Module = fx.Module("customergroup.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
